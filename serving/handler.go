package serving

import (
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/jayfeihe/jooby/body"
	"github.com/jayfeihe/jooby/dispatch"
	"github.com/jayfeihe/jooby/media"
)

// HandlerConfig configures the http.Handler adapter.
type HandlerConfig struct {
	// Views renders named views, DefaultViewRenderer when nil.
	Views ViewRenderer
}

// Handler feeds HTTP requests into a dispatch engine using the default
// Request and Response implementations.
type Handler struct {
	engine *dispatch.Engine
	views  ViewRenderer
}

// NewHandler wraps an engine as an http.Handler.
func NewHandler(engine *dispatch.Engine, cfg HandlerConfig) *Handler {
	views := cfg.Views
	if views == nil {
		views = DefaultViewRenderer
	}
	return &Handler{engine: engine, views: views}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	charset := ""
	if contentType != "" {
		if _, params, err := mime.ParseMediaType(contentType); err == nil {
			charset = params["charset"]
		}
	}
	params := requestParams(r)

	var res *Response
	requests := dispatch.RequestFactoryFunc(func(scope *dispatch.Scope, route *dispatch.Route, selector *body.Selector, cs string, ct media.Type, accept []media.Type) dispatch.Request {
		return NewRequest(r, params, scope, route, selector, cs, ct, accept)
	})
	responses := dispatch.ResponseFactoryFunc(func(_ *dispatch.Scope, selector *body.Selector, types *media.TypeProvider, cs string, accept []media.Type) dispatch.Response {
		res = NewResponse(w, selector, types, h.views, cs, accept)
		return res
	})

	err := h.engine.Handle(r.Method, r.URL.Path, contentType, r.Header.Get("Accept"), charset,
		params, w.Header(), requests, responses)
	if err != nil && (res == nil || !res.Committed()) {
		http.Error(w, dispatch.Reason(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// requestParams merges query string and form payload parameters. The form
// is only parsed for urlencoded bodies, leaving other payloads readable by
// the body converters.
func requestParams(r *http.Request) url.Values {
	if strings.HasPrefix(r.Header.Get("Content-Type"), media.FormURLEncoded.Name()) {
		if err := r.ParseForm(); err == nil {
			return r.Form
		}
	}
	return r.URL.Query()
}
