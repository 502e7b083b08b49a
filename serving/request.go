package serving

import (
	"net/http"
	"net/url"

	"github.com/jayfeihe/jooby/body"
	"github.com/jayfeihe/jooby/dispatch"
	"github.com/jayfeihe/jooby/media"
)

// Request is the default dispatch.Request implementation over a raw
// *http.Request. Handlers that need transport access can type assert the
// dispatch.Request they receive back to *Request.
type Request struct {
	raw         *http.Request
	route       *dispatch.Route
	scope       *dispatch.Scope
	selector    *body.Selector
	charset     string
	contentType media.Type
	accept      []media.Type
	params      url.Values
}

// NewRequest builds a Request. The engine supplies everything except the
// raw request and the merged parameters, which the transport captures.
func NewRequest(raw *http.Request, params url.Values, scope *dispatch.Scope, route *dispatch.Route, selector *body.Selector, charset string, contentType media.Type, accept []media.Type) *Request {
	if params == nil {
		params = url.Values{}
	}
	return &Request{
		raw:         raw,
		route:       route,
		scope:       scope,
		selector:    selector,
		charset:     charset,
		contentType: contentType,
		accept:      accept,
		params:      params,
	}
}

// Route returns the route currently executing.
func (r *Request) Route() *dispatch.Route { return r.route }

// Scope returns the request scope.
func (r *Request) Scope() *dispatch.Scope { return r.scope }

// Charset returns the canonical request charset.
func (r *Request) Charset() string { return r.charset }

// ContentType returns the request body type.
func (r *Request) ContentType() media.Type { return r.contentType }

// Accept returns the parsed accept list in header order.
func (r *Request) Accept() []media.Type { return r.accept }

// Params returns request parameters merged from the query string and any
// form payload.
func (r *Request) Params() url.Values { return r.params }

// Param returns the first value bound to name, route variables first, then
// query and form parameters.
func (r *Request) Param(name string) (string, bool) {
	if v, ok := r.route.Var(name); ok {
		return v, true
	}
	if vs, ok := r.params[name]; ok && len(vs) > 0 {
		return vs[0], true
	}
	return "", false
}

// Header returns the named request header.
func (r *Request) Header(name string) string {
	return r.raw.Header.Get(name)
}

// Body decodes the request body into v using the converter registered for
// the request content type. It fails with a 415 error when no converter
// accepts the content type.
func (r *Request) Body(v any) error {
	conv, ok := r.selector.ForRead(r.contentType)
	if !ok {
		return dispatch.NewHTTPError(http.StatusUnsupportedMediaType, r.contentType.Name())
	}
	return conv.Read(r.raw.Body, v)
}

// Raw exposes the underlying *http.Request.
func (r *Request) Raw() *http.Request { return r.raw }

// AsRequest recovers the concrete *Request behind a dispatch.Request,
// unwrapping the views the chain layers on top of it.
func AsRequest(req dispatch.Request) (*Request, bool) {
	for req != nil {
		if r, ok := req.(*Request); ok {
			return r, true
		}
		u, ok := req.(interface{ Unwrap() dispatch.Request })
		if !ok {
			return nil, false
		}
		req = u.Unwrap()
	}
	return nil, false
}
