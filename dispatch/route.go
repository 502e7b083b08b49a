package dispatch

import (
	"github.com/jayfeihe/jooby/media"
)

// HandlerFunc is the unit of work in a chain. A handler either completes
// the response or delegates to the rest of the chain via chain.Next.
type HandlerFunc func(req Request, res Response, chain *Chain) error

// Kind discriminates matched user routes from the synthetic fallbacks the
// resolver appends.
type Kind int

const (
	// KindUser marks a route resolved from a Table definition.
	KindUser Kind = iota

	// KindNotAcceptable diagnoses negotiation failures as 406 or 415.
	KindNotAcceptable

	// KindMethodNotAllowed diagnoses verb mismatches as 405.
	KindMethodNotAllowed

	// KindNotFound terminates every chain, raising 404 when nothing else
	// answered.
	KindNotFound
)

// String returns the snake case kind name.
func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindNotAcceptable:
		return "not_acceptable"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Route is one resolved step of a chain: a table definition bound to the
// request that matched it, or a synthetic fallback.
type Route struct {
	kind    Kind
	verb    string
	pattern string
	vars    map[string]string
	def     *Definition
	handler HandlerFunc
}

func fromDefinition(verb string, def *Definition, vars map[string]string) *Route {
	return &Route{
		kind:    KindUser,
		verb:    verb,
		pattern: def.Pattern(),
		vars:    vars,
		def:     def,
		handler: def.handler,
	}
}

func synthetic(kind Kind, verb, path string, handler HandlerFunc) *Route {
	return &Route{
		kind:    kind,
		verb:    verb,
		pattern: verb + path,
		handler: handler,
	}
}

// NotFound returns the terminal fallback route for a verb and path. The
// resolver always appends one, so a chain is never empty.
func NotFound(verb, path string) *Route {
	return synthetic(KindNotFound, verb, path, notFoundHandler(verb+path))
}

// Kind returns the route kind.
func (r *Route) Kind() Kind { return r.kind }

// Verb returns the request verb the route was resolved for.
func (r *Route) Verb() string { return r.verb }

// Pattern returns an identifying pattern string.
func (r *Route) Pattern() string { return r.pattern }

// Vars returns the path variables extracted during matching. The map is
// shared; treat it as read only.
func (r *Route) Vars() map[string]string { return r.vars }

// Var returns one path variable and whether it was bound.
func (r *Route) Var(name string) (string, bool) {
	v, ok := r.vars[name]
	return v, ok
}

// Definition returns the table entry behind a user route, nil for the
// synthetic fallbacks.
func (r *Route) Definition() *Definition { return r.def }

// Consumes returns the content types the route accepts; fallbacks accept
// anything.
func (r *Route) Consumes() []media.Type {
	if r.def == nil {
		return []media.Type{media.All}
	}
	return r.def.GetConsumes()
}

// Produces returns the response types the route declares; fallbacks
// declare the wildcard.
func (r *Route) Produces() []media.Type {
	if r.def == nil {
		return []media.Type{media.All}
	}
	return r.def.GetProduces()
}

// routeView overlays the current route while a chain step runs, so nested
// handlers each observe themselves as current.
type routeView struct {
	Request
	route *Route
}

func (v routeView) Route() *Route { return v.route }

// Unwrap exposes the wrapped request, so transport implementations stay
// reachable through type assertions on the unwrapped chain.
func (v routeView) Unwrap() Request { return v.Request }
