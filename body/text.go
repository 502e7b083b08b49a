package body

import (
	"fmt"
	"io"

	"github.com/jayfeihe/jooby/media"
)

// ToText renders any value in its textual form for text/plain consumers
// and reads payloads into *string or *[]byte.
var ToText Converter = textConverter{typ: media.Plain}

// ToHTML is the last resort for text/html consumers. It writes the value's
// textual form verbatim, so callers that want markup pass prebuilt HTML
// strings.
var ToHTML Converter = textConverter{typ: media.HTML}

type textConverter struct {
	typ media.Type
}

func (c textConverter) Types() []media.Type { return []media.Type{c.typ} }

func (c textConverter) CanWrite(v any) bool {
	_, isView := v.(View)
	return !isView
}

func (c textConverter) Write(w io.Writer, v any) error {
	var err error
	switch b := v.(type) {
	case []byte:
		_, err = w.Write(b)
	case string:
		_, err = io.WriteString(w, b)
	default:
		_, err = fmt.Fprint(w, v)
	}
	if err != nil {
		return fmt.Errorf("body: write text: %w", err)
	}
	return nil
}

func (c textConverter) Read(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("body: read text: %w", err)
	}

	switch out := v.(type) {
	case *string:
		*out = string(data)
	case *[]byte:
		*out = data
	default:
		return fmt.Errorf("body: cannot read text into %T", v)
	}
	return nil
}
