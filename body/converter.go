package body

import (
	"errors"
	"io"

	"github.com/jayfeihe/jooby/media"
)

// Errors shared by the decoding side of the built in converters.
var (
	ErrEmptyBody    = errors.New("body: empty message body")
	ErrTrailingData = errors.New("body: unexpected data after payload")
)

// Converter reads and writes message bodies for a set of media types.
type Converter interface {
	// Types lists the media types the converter handles.
	Types() []media.Type

	// CanWrite reports whether the converter can render v.
	CanWrite(v any) bool

	// Write renders v to w.
	Write(w io.Writer, v any) error

	// Read decodes a payload into v, which must be a non nil pointer.
	Read(r io.Reader, v any) error
}

// View names a template and carries the model it renders. No Converter
// handles views directly; responses route them to a template renderer.
type View struct {
	Name  string
	Model any
}

// Selector picks converters for negotiated media types, scanning converters
// in registration order.
type Selector struct {
	converters []Converter
}

// NewSelector builds a selector over the given converters. Order matters:
// the first compatible converter wins.
func NewSelector(converters ...Converter) *Selector {
	return &Selector{converters: converters}
}

// DefaultSelector covers JSON, XML and YAML plus the HTML and plain text
// fallbacks, in that order.
func DefaultSelector() *Selector {
	return NewSelector(JSON, XML, YAML, ToHTML, ToText)
}

// ForWrite returns the first converter that can render v and is compatible
// with one of the given types.
func (s *Selector) ForWrite(v any, types []media.Type) (Converter, bool) {
	for _, c := range s.converters {
		if !c.CanWrite(v) {
			continue
		}
		if compatible(c, types) {
			return c, true
		}
	}
	return nil, false
}

// ForRead returns the first converter compatible with the request content
// type.
func (s *Selector) ForRead(contentType media.Type) (Converter, bool) {
	for _, c := range s.converters {
		if compatible(c, []media.Type{contentType}) {
			return c, true
		}
	}
	return nil, false
}

func compatible(c Converter, types []media.Type) bool {
	for _, want := range types {
		for _, ct := range c.Types() {
			if want.Matches(ct) {
				return true
			}
		}
	}
	return false
}
