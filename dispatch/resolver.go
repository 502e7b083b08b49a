package dispatch

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jayfeihe/jooby/media"
	"github.com/jayfeihe/jooby/metrics"
)

// DefaultVerbs is the verb set probed by the 405 diagnostic.
var DefaultVerbs = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
}

// Resolve builds the chain for a request: user routes matching the
// composite verb plus path key in table order, followed by the three
// synthetic fallbacks. The result is never empty and resolving the same
// request twice yields the same chain.
func (e *Engine) Resolve(verb, uri string, contentType media.Type, accept []media.Type) []*Route {
	verb = strings.ToUpper(verb)
	uri = normalizePath(uri)

	routes := matchRoutes(e.defs, verb, verb+uri, contentType, accept)

	routes = append(routes,
		synthetic(KindNotAcceptable, verb, uri, e.notAcceptableHandler(verb, uri, contentType, accept)),
		synthetic(KindMethodNotAllowed, verb, uri, e.methodNotAllowedHandler(verb, uri, contentType, accept)),
		synthetic(KindNotFound, verb, uri, notFoundHandler(verb+uri)),
	)
	return routes
}

// normalizePath forces a leading slash and strips one trailing slash,
// leaving the root untouched.
func normalizePath(uri string) string {
	if uri == "" {
		return "/"
	}
	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}
	if len(uri) > 1 {
		uri = strings.TrimSuffix(uri, "/")
	}
	return uri
}

// matchRoutes scans definitions in priority order. A definition matches
// when its pattern admits the composite key, it can consume the request
// content type and at least one produced type satisfies the accept list.
func matchRoutes(defs []*Definition, verb, key string, contentType media.Type, accept []media.Type) []*Route {
	var routes []*Route
	for _, def := range defs {
		if def.err != nil || def.pat == nil {
			continue
		}
		vars, ok := def.pat.match(key)
		if !ok {
			continue
		}
		if !def.CanConsume(contentType) {
			continue
		}
		if !def.CanProduce(accept) {
			continue
		}
		routes = append(routes, fromDefinition(verb, def, vars))
	}
	return routes
}

// notAcceptableHandler diagnoses negotiation failures once every matching
// user route has passed on the request. The first literal definition
// matching the composite key decides: if it cannot satisfy the accept list
// the verdict is 406, otherwise the content type was the problem and the
// verdict is 415. Regex definitions are skipped because a variable match
// does not prove the resource exists.
func (e *Engine) notAcceptableHandler(verb, uri string, contentType media.Type, accept []media.Type) HandlerFunc {
	return func(req Request, res Response, chain *Chain) error {
		if !res.Committed() {
			key := verb + uri
			for _, def := range e.defs {
				if def.err != nil || def.pat == nil || def.pat.regex() {
					continue
				}
				if _, ok := def.pat.match(key); !ok {
					continue
				}
				if !def.CanProduce(accept) {
					countFallback(http.StatusNotAcceptable)
					return NewHTTPError(http.StatusNotAcceptable, media.Join(accept))
				}
				countFallback(http.StatusUnsupportedMediaType)
				return NewHTTPError(http.StatusUnsupportedMediaType, contentType.Name())
			}
		}
		return chain.Next(req, res)
	}
}

// methodNotAllowedHandler probes every other configured verb against the
// same path. Wildcard patterns are skipped since they would report 405 for
// paths they only match incidentally.
func (e *Engine) methodNotAllowedHandler(verb, uri string, contentType media.Type, accept []media.Type) HandlerFunc {
	return func(req Request, res Response, chain *Chain) error {
		if !res.Committed() {
			for _, other := range e.verbs {
				if other == verb {
					continue
				}
				for _, candidate := range matchRoutes(e.defs, other, other+uri, contentType, accept) {
					if candidate.def.pat.wildcard {
						continue
					}
					countFallback(http.StatusMethodNotAllowed)
					return NewHTTPError(http.StatusMethodNotAllowed, verb+uri)
				}
			}
		}
		return chain.Next(req, res)
	}
}

// notFoundHandler terminates every chain. Unlike the other fallbacks it
// never delegates: an uncommitted response at this point is a 404.
func notFoundHandler(key string) HandlerFunc {
	return func(req Request, res Response, chain *Chain) error {
		if res.Committed() {
			return nil
		}
		countFallback(http.StatusNotFound)
		return NewHTTPError(http.StatusNotFound, key)
	}
}

func countFallback(status int) {
	metrics.FallbackResponses.WithLabelValues(strconv.Itoa(status)).Inc()
}
