package dispatch

// Module contributes services to a request scope at the start of a
// transaction.
type Module func(*Scope)

// ScopeRequestID is the scope key under which the engine stores the
// generated request identifier.
const ScopeRequestID = "dispatch.request_id"

// Scope holds per transaction services and state. A scope belongs to
// exactly one dispatch and is owned by one goroutine at a time; nothing
// synchronizes it.
type Scope struct {
	values    map[string]any
	cleanups  []func()
	destroyed bool
}

// NewScope builds a scope and runs every module against it.
func NewScope(modules ...Module) *Scope {
	s := &Scope{values: make(map[string]any)}
	for _, m := range modules {
		if m != nil {
			m(s)
		}
	}
	return s
}

// Set binds a value under a key, replacing any previous binding.
func (s *Scope) Set(key string, value any) {
	if s.destroyed {
		return
	}
	s.values[key] = value
}

// Get returns the bound value and whether the key was present.
func (s *Scope) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// OnDestroy registers a cleanup to run when the scope is destroyed.
// Cleanups run in reverse registration order.
func (s *Scope) OnDestroy(fn func()) {
	if fn != nil {
		s.cleanups = append(s.cleanups, fn)
	}
}

// Destroyed reports whether Destroy has run.
func (s *Scope) Destroyed() bool { return s.destroyed }

// Destroy releases the scope, running cleanups exactly once. Further calls
// are no-ops.
func (s *Scope) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
	s.values = nil
	s.cleanups = nil
}
