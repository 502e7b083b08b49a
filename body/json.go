package body

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jayfeihe/jooby/media"
)

// JSON converts application/json payloads with encoding/json. Unknown
// object fields are rejected on read so client typos surface as errors
// instead of silently dropped data.
var JSON Converter = jsonConverter{}

type jsonConverter struct{}

func (jsonConverter) Types() []media.Type { return []media.Type{media.JSON} }

func (jsonConverter) CanWrite(v any) bool {
	_, isView := v.(View)
	return !isView
}

func (jsonConverter) Write(w io.Writer, v any) error {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("body: encode json: %w", err)
	}
	return nil
}

func (jsonConverter) Read(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("body: decode json: %w", err)
	}

	if dec.More() {
		return ErrTrailingData
	}

	return nil
}
