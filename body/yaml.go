package body

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jayfeihe/jooby/media"
)

// YAML converts application/x-yaml payloads with gopkg.in/yaml.v3.
var YAML Converter = yamlConverter{}

type yamlConverter struct{}

func (yamlConverter) Types() []media.Type { return []media.Type{media.YAML} }

func (yamlConverter) CanWrite(v any) bool {
	_, isView := v.(View)
	return !isView
}

func (yamlConverter) Write(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("body: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("body: encode yaml: %w", err)
	}
	return nil
}

func (yamlConverter) Read(r io.Reader, v any) error {
	if err := yaml.NewDecoder(r).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("body: decode yaml: %w", err)
	}
	return nil
}
