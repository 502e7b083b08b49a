package dispatch

import (
	"fmt"
	"strings"

	"github.com/jayfeihe/jooby/media"
)

// Definition is one entry of a route Table: a verb, a path template, media
// type constraints and the handler to run. Setters return the definition
// so registrations chain; errors are recorded rather than returned and
// surface when the table is handed to New.
type Definition struct {
	verb     string
	template string
	pat      *pattern
	consumes []media.Type
	produces []media.Type
	handler  HandlerFunc
	err      error
}

func newDefinition(verb, template string, handler HandlerFunc) *Definition {
	d := &Definition{
		verb:     strings.ToUpper(strings.TrimSpace(verb)),
		template: template,
		consumes: []media.Type{media.All},
		produces: []media.Type{media.All},
		handler:  handler,
	}

	if handler == nil {
		d.err = fmt.Errorf("dispatch: nil handler for %s %s", verb, template)
		return d
	}

	pat, err := compilePattern(verb, template)
	if err != nil {
		d.err = err
		return d
	}
	d.pat = pat
	d.verb = pat.verb
	d.template = pat.template
	return d
}

// Consumes restricts the request content types the definition accepts.
// Calling it without arguments resets the restriction to the wildcard.
func (d *Definition) Consumes(types ...media.Type) *Definition {
	if len(types) == 0 {
		types = []media.Type{media.All}
	}
	d.consumes = append([]media.Type(nil), types...)
	return d
}

// Produces declares the media types the definition can render, in
// preference order. Calling it without arguments resets to the wildcard.
func (d *Definition) Produces(types ...media.Type) *Definition {
	if len(types) == 0 {
		types = []media.Type{media.All}
	}
	d.produces = append([]media.Type(nil), types...)
	return d
}

// GetVerb returns the registered verb, upper case.
func (d *Definition) GetVerb() string { return d.verb }

// GetPathTemplate returns the normalized path template.
func (d *Definition) GetPathTemplate() string { return d.template }

// GetConsumes returns the accepted request content types.
func (d *Definition) GetConsumes() []media.Type {
	return append([]media.Type(nil), d.consumes...)
}

// GetProduces returns the declared response types.
func (d *Definition) GetProduces() []media.Type {
	return append([]media.Type(nil), d.produces...)
}

// GetError returns the error recorded while building the definition, if
// any. Definitions with an error never match.
func (d *Definition) GetError() error { return d.err }

// Pattern returns the display form of the compiled pattern, verb first.
func (d *Definition) Pattern() string {
	if d.pat == nil {
		return d.verb + " " + d.template
	}
	return d.pat.display()
}

// CanConsume reports whether the definition accepts the given request
// content type.
func (d *Definition) CanConsume(contentType media.Type) bool {
	for _, t := range d.consumes {
		if contentType.Matches(t) {
			return true
		}
	}
	return false
}

// CanProduce reports whether at least one declared response type satisfies
// the accept list.
func (d *Definition) CanProduce(accept []media.Type) bool {
	return len(media.NewMatcher(accept).Filter(d.produces)) > 0
}

// Match probes the definition with a verb and a path, returning extracted
// path variables on success.
func (d *Definition) Match(verb, path string) (map[string]string, bool) {
	if d.err != nil || d.pat == nil {
		return nil, false
	}
	return d.pat.match(strings.ToUpper(verb) + normalizePath(path))
}
