package media

// Matcher answers compatibility questions for a fixed accept list.
type Matcher struct {
	acceptable []Type
}

// NewMatcher builds a Matcher over the given acceptable types. A nil or
// empty list behaves as the full wildcard.
func NewMatcher(acceptable []Type) Matcher {
	if len(acceptable) == 0 {
		acceptable = []Type{All}
	}
	return Matcher{acceptable: acceptable}
}

// Matches reports whether the candidate is compatible with at least one
// acceptable type.
func (m Matcher) Matches(candidate Type) bool {
	for _, a := range m.acceptable {
		if a.Matches(candidate) {
			return true
		}
	}
	return false
}

// Filter returns the candidates compatible with at least one acceptable
// type, preserving candidate order.
func (m Matcher) Filter(candidates []Type) []Type {
	var out []Type
	for _, c := range candidates {
		if m.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// First returns the first candidate admitted by Filter.
func (m Matcher) First(candidates []Type) (Type, bool) {
	for _, c := range candidates {
		if m.Matches(c) {
			return c, true
		}
	}
	return Type{}, false
}
