package media

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidType is returned when a media type expression cannot be parsed.
var ErrInvalidType = errors.New("media: invalid media type")

// Type is an immutable media type expression: a primary type, a subtype and
// optional parameters such as the quality factor. The zero value is not a
// valid type; use ParseType or one of the predeclared values.
type Type struct {
	primary string
	subtype string
	params  map[string]string
}

// Predeclared types cover the values the dispatch pipeline negotiates with
// most often.
var (
	All            = New("*", "*")
	JSON           = New("application", "json")
	XML            = New("application", "xml")
	YAML           = New("application", "x-yaml")
	HTML           = New("text", "html")
	Plain          = New("text", "plain")
	OctetStream    = New("application", "octet-stream")
	FormURLEncoded = New("application", "x-www-form-urlencoded")
	MultipartForm  = New("multipart", "form-data")
)

// New builds a parameterless media type from a primary type and a subtype.
func New(primary, subtype string) Type {
	return Type{
		primary: strings.ToLower(strings.TrimSpace(primary)),
		subtype: strings.ToLower(strings.TrimSpace(subtype)),
	}
}

// ParseType parses a single media type expression such as "application/json"
// or "text/html;q=0.8;level=1". Parameter names are folded to lower case.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Type{}, fmt.Errorf("%w: empty expression", ErrInvalidType)
	}

	var params map[string]string
	if i := strings.IndexByte(s, ';'); i >= 0 {
		for _, part := range strings.Split(s[i+1:], ";") {
			name, value, _ := strings.Cut(part, "=")
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[name] = strings.TrimSpace(value)
		}
		s = strings.TrimSpace(s[:i])
	}

	primary, subtype, found := strings.Cut(s, "/")
	if !found {
		// A bare "*" is accepted as shorthand for */* since some clients
		// send it, see RFC 7231 Section 5.3.2.
		if primary != "*" {
			return Type{}, fmt.Errorf("%w: %q", ErrInvalidType, s)
		}
		subtype = "*"
	}

	primary = strings.ToLower(strings.TrimSpace(primary))
	subtype = strings.ToLower(strings.TrimSpace(subtype))
	if primary == "" || subtype == "" {
		return Type{}, fmt.Errorf("%w: %q", ErrInvalidType, s)
	}

	return Type{primary: primary, subtype: subtype, params: params}, nil
}

// MustParseType is like ParseType but panics on malformed input. It is
// intended for package level declarations.
func MustParseType(s string) Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse parses an Accept style header into the types it names, preserving
// header order. Malformed entries are skipped. An empty or unparseable
// header yields the full wildcard so negotiation always has a candidate.
func Parse(header string) []Type {
	if strings.TrimSpace(header) == "" {
		return []Type{All}
	}

	var types []Type
	for _, part := range strings.Split(header, ",") {
		t, err := ParseType(part)
		if err != nil {
			continue
		}
		types = append(types, t)
	}

	if len(types) == 0 {
		return []Type{All}
	}

	return types
}

// Primary returns the primary type, e.g. "application".
func (t Type) Primary() string { return t.primary }

// Subtype returns the subtype, e.g. "json".
func (t Type) Subtype() string { return t.subtype }

// Name returns the canonical type/subtype form without parameters.
func (t Type) Name() string { return t.primary + "/" + t.subtype }

// Param returns the named parameter and whether it was present.
func (t Type) Param(name string) (string, bool) {
	v, ok := t.params[strings.ToLower(name)]
	return v, ok
}

// Quality returns the q parameter, defaulting to 1.0 when absent or
// malformed.
func (t Type) Quality() float64 {
	raw, ok := t.params["q"]
	if !ok {
		return 1
	}
	q, err := strconv.ParseFloat(raw, 64)
	if err != nil || q < 0 || q > 1 {
		return 1
	}
	return q
}

// IsWildcardType reports whether the primary type is the wildcard "*".
func (t Type) IsWildcardType() bool { return t.primary == "*" }

// IsWildcardSubtype reports whether the subtype is the wildcard "*".
func (t Type) IsWildcardSubtype() bool { return t.subtype == "*" }

// IsZero reports whether t is the zero Type rather than a parsed value.
func (t Type) IsZero() bool { return t.primary == "" }

// Matches reports whether t and u are compatible. Each component must be
// equal or a wildcard on either side; parameters do not participate.
func (t Type) Matches(u Type) bool {
	if !t.IsWildcardType() && !u.IsWildcardType() && t.primary != u.primary {
		return false
	}
	if t.IsWildcardSubtype() || u.IsWildcardSubtype() {
		return true
	}
	return t.subtype == u.subtype
}

// Equal reports whether two types share the same name, ignoring parameters.
func (t Type) Equal(u Type) bool {
	return t.primary == u.primary && t.subtype == u.subtype
}

// String renders the type with its parameters in sorted order.
func (t Type) String() string {
	if len(t.params) == 0 {
		return t.Name()
	}

	keys := make([]string, 0, len(t.params))
	for k := range t.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(t.Name())
	for _, k := range keys {
		b.WriteByte(';')
		b.WriteString(k)
		if v := t.params[k]; v != "" {
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}

func (t Type) wildcards() int {
	n := 0
	if t.IsWildcardType() {
		n++
	}
	if t.IsWildcardSubtype() {
		n++
	}
	return n
}

// SortedByPriority returns a copy of types ordered for negotiation: fewer
// wildcard components first, then higher quality. The sort is stable, so
// header order breaks ties.
func SortedByPriority(types []Type) []Type {
	out := make([]Type, len(types))
	copy(out, types)
	sort.SliceStable(out, func(i, j int) bool {
		if wi, wj := out[i].wildcards(), out[j].wildcards(); wi != wj {
			return wi < wj
		}
		return out[i].Quality() > out[j].Quality()
	})
	return out
}

// Join renders the names of types as a comma separated list, the form used
// in negotiation diagnostics.
func Join(types []Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name()
	}
	return strings.Join(names, ", ")
}
