package dispatch

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jayfeihe/jooby/media"
)

// Table collects route definitions in registration order, and registration
// order is matching priority: earlier definitions win.
//
// A Table is not safe for concurrent mutation. Build it during startup and
// hand it to New, which snapshots the definitions.
type Table struct {
	defs []*Definition
}

// NewTable returns an empty route table.
func NewTable() *Table { return &Table{} }

// Route registers a handler for a verb and path template and returns the
// definition for chained Consumes and Produces calls.
func (t *Table) Route(verb, template string, handler HandlerFunc) *Definition {
	d := newDefinition(verb, template, handler)
	t.defs = append(t.defs, d)
	return d
}

// Get registers a GET route.
func (t *Table) Get(template string, handler HandlerFunc) *Definition {
	return t.Route(http.MethodGet, template, handler)
}

// Post registers a POST route.
func (t *Table) Post(template string, handler HandlerFunc) *Definition {
	return t.Route(http.MethodPost, template, handler)
}

// Put registers a PUT route.
func (t *Table) Put(template string, handler HandlerFunc) *Definition {
	return t.Route(http.MethodPut, template, handler)
}

// Delete registers a DELETE route.
func (t *Table) Delete(template string, handler HandlerFunc) *Definition {
	return t.Route(http.MethodDelete, template, handler)
}

// Any registers a route matching every verb.
func (t *Table) Any(template string, handler HandlerFunc) *Definition {
	return t.Route(AnyVerb, template, handler)
}

// Definitions returns the registered definitions in priority order.
func (t *Table) Definitions() []*Definition {
	return append([]*Definition(nil), t.defs...)
}

// Err returns the first registration error recorded by any definition.
func (t *Table) Err() error {
	for _, d := range t.defs {
		if d.err != nil {
			return d.err
		}
	}
	return nil
}

// String renders the table as aligned columns of pattern, consumes and
// produces, one definition per line.
func (t *Table) String() string {
	return formatDefinitions(t.defs)
}

func formatDefinitions(defs []*Definition) string {
	var patternMax, consumesMax, producesMax int
	rows := make([][3]string, 0, len(defs))
	for _, d := range defs {
		row := [3]string{
			d.Pattern(),
			"[" + media.Join(d.consumes) + "]",
			"[" + media.Join(d.produces) + "]",
		}
		patternMax = max(patternMax, len(row[0]))
		consumesMax = max(consumesMax, len(row[1]))
		producesMax = max(producesMax, len(row[2]))
		rows = append(rows, row)
	}

	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "    %-*s    %*s     %*s\n",
			patternMax, row[0], consumesMax, row[1], producesMax, row[2])
	}
	return b.String()
}
