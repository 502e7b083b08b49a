package dispatch

import (
	"fmt"

	"golang.org/x/text/encoding/htmlindex"
)

// DefaultCharset is assumed when neither the request nor the engine
// configuration names one.
const DefaultCharset = "utf-8"

// resolveCharset canonicalizes a charset label through the WHATWG encoding
// index, so aliases like "latin1" and "ISO8859-1" collapse to one name.
func resolveCharset(name string) (string, error) {
	if name == "" {
		name = DefaultCharset
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", fmt.Errorf("dispatch: unknown charset %q: %w", name, err)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		return "", fmt.Errorf("dispatch: unknown charset %q: %w", name, err)
	}
	return canonical, nil
}
