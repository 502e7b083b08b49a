package dispatch

import (
	"net/http"
	"net/url"

	"github.com/jayfeihe/jooby/body"
	"github.com/jayfeihe/jooby/media"
)

// Request is the engine's view of an in-flight request. Implementations
// wrap the underlying transport; the engine itself never touches sockets.
type Request interface {
	// Route returns the route currently executing. Inside a chain step the
	// result is that step's own route.
	Route() *Route

	// Scope returns the request scope.
	Scope() *Scope

	// Charset returns the canonical request charset.
	Charset() string

	// ContentType returns the request body type, the wildcard when the
	// request named none.
	ContentType() media.Type

	// Accept returns the parsed accept list in header order.
	Accept() []media.Type

	// Params returns request parameters merged from the query string and
	// any form payload.
	Params() url.Values
}

// Response is the engine's view of the outgoing response.
type Response interface {
	// Header exposes the response headers for mutation until commit.
	Header() http.Header

	// Status returns the response status, 0 before one is set.
	Status() int

	// SetStatus sets the response status for the next send.
	SetStatus(status int)

	// Type returns the explicit content type override, zero when unset.
	Type() media.Type

	// SetType forces the response content type, bypassing negotiation.
	SetType(t media.Type)

	// Charset returns the response charset.
	Charset() string

	// Committed reports whether response bytes have been flushed. A
	// committed response cannot be reset.
	Committed() bool

	// Reset discards status, headers and any buffered body. It fails with
	// ErrCommitted once bytes are on the wire.
	Reset() error

	// Send negotiates a converter against the accept list and writes v in
	// a single shot.
	Send(v any) error

	// SendWith writes v through an explicit converter, skipping
	// negotiation.
	SendWith(v any, converter body.Converter) error

	// Format starts a negotiated render: register per type suppliers with
	// When, then Send picks the best one for the accept list.
	Format() Formatter

	// Redirect commits an empty response with a Location header. Use
	// http.StatusFound for the conventional temporary redirect.
	Redirect(status int, location string) error
}

// Formatter accumulates per media type render strategies for one send.
type Formatter interface {
	// When registers a supplier for a media type. Registration order
	// breaks ties between equally acceptable types.
	When(t media.Type, supply func() (any, error)) Formatter

	// Send picks the strategy best matching the accept list, runs its
	// supplier and sends the result. With no compatible strategy it fails
	// with a 406 HTTPError.
	Send() error
}

// RequestFactory builds the Request handed to route handlers. The factory
// carries whatever transport state the implementation needs; the engine
// only supplies negotiation results and the request scope.
type RequestFactory interface {
	NewRequest(scope *Scope, route *Route, selector *body.Selector, charset string, contentType media.Type, accept []media.Type) Request
}

// RequestFactoryFunc adapts a function to the RequestFactory interface.
type RequestFactoryFunc func(scope *Scope, route *Route, selector *body.Selector, charset string, contentType media.Type, accept []media.Type) Request

// NewRequest implements RequestFactory.
func (f RequestFactoryFunc) NewRequest(scope *Scope, route *Route, selector *body.Selector, charset string, contentType media.Type, accept []media.Type) Request {
	return f(scope, route, selector, charset, contentType, accept)
}

// ResponseFactory builds the Response handed to route handlers.
type ResponseFactory interface {
	NewResponse(scope *Scope, selector *body.Selector, types *media.TypeProvider, charset string, accept []media.Type) Response
}

// ResponseFactoryFunc adapts a function to the ResponseFactory interface.
type ResponseFactoryFunc func(scope *Scope, selector *body.Selector, types *media.TypeProvider, charset string, accept []media.Type) Response

// NewResponse implements ResponseFactory.
func (f ResponseFactoryFunc) NewResponse(scope *Scope, selector *body.Selector, types *media.TypeProvider, charset string, accept []media.Type) Response {
	return f(scope, selector, types, charset, accept)
}
