// Package media implements media type expressions and the matching rules
// used for HTTP content negotiation.
//
// A media type is an immutable value of the form type/subtype with optional
// parameters, per RFC 7231 Section 3.1.1.1. Matching is symmetric with
// respect to wildcards: text/html matches text/* and */* and vice versa.
// Quality factors (the q parameter, RFC 7231 Section 5.3.1) influence the
// order in which acceptable types are considered, never whether a type is
// admitted at all.
package media
