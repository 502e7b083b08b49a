package dispatch

import (
	"net/http"
	"net/url"

	"github.com/jayfeihe/jooby/body"
	"github.com/jayfeihe/jooby/media"
)

// fakeRequest and fakeResponse implement just enough of the collaborator
// contracts to drive the engine in tests.

type fakeRequest struct {
	route       *Route
	scope       *Scope
	charset     string
	contentType media.Type
	accept      []media.Type
	params      url.Values
}

func (r *fakeRequest) Route() *Route           { return r.route }
func (r *fakeRequest) Scope() *Scope           { return r.scope }
func (r *fakeRequest) Charset() string         { return r.charset }
func (r *fakeRequest) ContentType() media.Type { return r.contentType }
func (r *fakeRequest) Accept() []media.Type    { return r.accept }
func (r *fakeRequest) Params() url.Values      { return r.params }

type fakeResponse struct {
	headers   http.Header
	status    int
	ctype     media.Type
	charset   string
	accept    []media.Type
	sent      []any
	committed bool
	resets    int

	// renderErr forces negotiated sends to fail, exercising the engine's
	// fallback page path. SendWith keeps working.
	renderErr error
}

func newFakeResponse() *fakeResponse {
	return &fakeResponse{headers: make(http.Header), charset: "utf-8"}
}

func (r *fakeResponse) Header() http.Header  { return r.headers }
func (r *fakeResponse) Status() int          { return r.status }
func (r *fakeResponse) SetStatus(status int) { r.status = status }
func (r *fakeResponse) Type() media.Type     { return r.ctype }
func (r *fakeResponse) SetType(t media.Type) { r.ctype = t }
func (r *fakeResponse) Charset() string      { return r.charset }
func (r *fakeResponse) Committed() bool      { return r.committed }

func (r *fakeResponse) Reset() error {
	if r.committed {
		return ErrCommitted
	}
	r.resets++
	r.status = 0
	r.ctype = media.Type{}
	r.sent = nil
	for k := range r.headers {
		delete(r.headers, k)
	}
	return nil
}

func (r *fakeResponse) Send(v any) error {
	if r.renderErr != nil {
		return r.renderErr
	}
	return r.deliver(v)
}

func (r *fakeResponse) SendWith(v any, _ body.Converter) error {
	return r.deliver(v)
}

func (r *fakeResponse) deliver(v any) error {
	if r.committed {
		return ErrCommitted
	}
	r.sent = append(r.sent, v)
	r.committed = true
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return nil
}

func (r *fakeResponse) Format() Formatter {
	return &fakeFormatter{res: r}
}

func (r *fakeResponse) Redirect(status int, location string) error {
	if r.committed {
		return ErrCommitted
	}
	r.headers.Set("Location", location)
	r.status = status
	r.committed = true
	return nil
}

// lastSent returns the most recent value delivered to the response.
func (r *fakeResponse) lastSent() any {
	if len(r.sent) == 0 {
		return nil
	}
	return r.sent[len(r.sent)-1]
}

type fakeFormatter struct {
	res     *fakeResponse
	entries []fakeFormatEntry
}

type fakeFormatEntry struct {
	t      media.Type
	supply func() (any, error)
}

func (f *fakeFormatter) When(t media.Type, supply func() (any, error)) Formatter {
	f.entries = append(f.entries, fakeFormatEntry{t: t, supply: supply})
	return f
}

func (f *fakeFormatter) Send() error {
	if f.res.renderErr != nil {
		return f.res.renderErr
	}
	accept := f.res.accept
	if len(accept) == 0 {
		accept = []media.Type{media.All}
	}
	for _, acc := range media.SortedByPriority(accept) {
		for _, entry := range f.entries {
			if acc.Matches(entry.t) {
				v, err := entry.supply()
				if err != nil {
					return err
				}
				return f.res.deliver(v)
			}
		}
	}
	return NewHTTPError(http.StatusNotAcceptable, media.Join(accept))
}

// fakeFactories wires a shared fakeResponse into the engine's factory
// contract and builds plain fakeRequests.
func fakeFactories(res *fakeResponse) (RequestFactory, ResponseFactory) {
	requests := RequestFactoryFunc(func(scope *Scope, route *Route, _ *body.Selector, charset string, contentType media.Type, accept []media.Type) Request {
		return &fakeRequest{
			route:       route,
			scope:       scope,
			charset:     charset,
			contentType: contentType,
			accept:      accept,
			params:      url.Values{},
		}
	})
	responses := ResponseFactoryFunc(func(_ *Scope, _ *body.Selector, _ *media.TypeProvider, charset string, accept []media.Type) Response {
		res.charset = charset
		res.accept = accept
		return res
	})
	return requests, responses
}
