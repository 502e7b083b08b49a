// Package body converts values to and from HTTP message bodies.
//
// A Converter owns a set of media types and the encoding for them. The
// Selector picks the first registered converter compatible with a negotiated
// type, so registration order decides ties the same way accept lists do.
// Views are not converted here; a view capable renderer on the response side
// handles them.
package body
