package body

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/jayfeihe/jooby/media"
)

// XML converts application/xml payloads with encoding/xml.
var XML Converter = xmlConverter{}

type xmlConverter struct{}

func (xmlConverter) Types() []media.Type { return []media.Type{media.XML} }

func (xmlConverter) CanWrite(v any) bool {
	_, isView := v.(View)
	return !isView
}

func (xmlConverter) Write(w io.Writer, v any) error {
	if err := xml.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("body: encode xml: %w", err)
	}
	return nil
}

func (xmlConverter) Read(r io.Reader, v any) error {
	dec := xml.NewDecoder(r)

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("body: decode xml: %w", err)
	}

	// A complete document leaves only EOF behind.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}

	return nil
}
