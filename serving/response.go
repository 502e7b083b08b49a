package serving

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jayfeihe/jooby/body"
	"github.com/jayfeihe/jooby/dispatch"
	"github.com/jayfeihe/jooby/media"
)

// Response is the default dispatch.Response implementation over an
// http.ResponseWriter. Payloads are rendered into a buffer first and
// written in a single shot, so converter failures never leave a half
// written body on the wire.
type Response struct {
	w         http.ResponseWriter
	selector  *body.Selector
	types     *media.TypeProvider
	views     ViewRenderer
	charset   string
	accept    []media.Type
	status    int
	ctype     media.Type
	committed bool
}

// NewResponse builds a Response. A nil views renderer falls back to
// DefaultViewRenderer.
func NewResponse(w http.ResponseWriter, selector *body.Selector, types *media.TypeProvider, views ViewRenderer, charset string, accept []media.Type) *Response {
	if views == nil {
		views = DefaultViewRenderer
	}
	return &Response{
		w:        w,
		selector: selector,
		types:    types,
		views:    views,
		charset:  charset,
		accept:   accept,
	}
}

// Header exposes the response headers for mutation until commit.
func (r *Response) Header() http.Header { return r.w.Header() }

// Status returns the response status, 0 before one is set.
func (r *Response) Status() int { return r.status }

// SetStatus sets the response status for the next send.
func (r *Response) SetStatus(status int) { r.status = status }

// Type returns the explicit content type override, zero when unset.
func (r *Response) Type() media.Type { return r.ctype }

// SetType forces the response content type, bypassing negotiation.
func (r *Response) SetType(t media.Type) { r.ctype = t }

// Charset returns the response charset.
func (r *Response) Charset() string { return r.charset }

// Committed reports whether response bytes have been flushed.
func (r *Response) Committed() bool { return r.committed }

// Reset discards status, headers and the content type override. It fails
// with ErrCommitted once bytes are on the wire.
func (r *Response) Reset() error {
	if r.committed {
		return dispatch.ErrCommitted
	}
	r.status = 0
	r.ctype = media.Type{}
	header := r.w.Header()
	for name := range header {
		delete(header, name)
	}
	return nil
}

// Send negotiates a converter against the accept list and writes v. Views
// are routed through the view renderer instead.
func (r *Response) Send(v any) error {
	if view, ok := v.(body.View); ok {
		return r.sendView(view)
	}
	want := r.negotiable()
	conv, ok := r.selector.ForWrite(v, want)
	if !ok {
		return dispatch.NewHTTPError(http.StatusNotAcceptable, media.Join(want))
	}
	return r.write(v, conv, matchedType(conv, want))
}

// SendWith writes v through an explicit converter, skipping negotiation.
func (r *Response) SendWith(v any, conv body.Converter) error {
	return r.write(v, conv, matchedType(conv, r.negotiable()))
}

// Format starts a negotiated render. Strategies registered with When are
// matched against the accept list in priority order; registration order
// breaks ties.
func (r *Response) Format() dispatch.Formatter {
	return &formatter{res: r}
}

// Redirect commits an empty response with a Location header.
func (r *Response) Redirect(status int, location string) error {
	if r.committed {
		return dispatch.ErrCommitted
	}
	r.w.Header().Set("Location", location)
	r.status = status
	r.w.WriteHeader(status)
	r.committed = true
	return nil
}

// Download commits src as an attachment. The content type is resolved from
// the file name, application/octet-stream for unknown extensions.
func (r *Response) Download(filename string, src io.Reader) error {
	if r.committed {
		return dispatch.ErrCommitted
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	r.w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(filename)))
	return r.commit(r.types.ByFile(filename), data)
}

// negotiable returns the types a send may produce: the explicit override
// when set, otherwise the request accept list.
func (r *Response) negotiable() []media.Type {
	if !r.ctype.IsZero() {
		return []media.Type{r.ctype}
	}
	if len(r.accept) == 0 {
		return []media.Type{media.All}
	}
	return r.accept
}

// sendFor dispatches a formatter result: views go to the renderer, plain
// values through the selector constrained to the strategy type.
func (r *Response) sendFor(v any, t media.Type) error {
	if view, ok := v.(body.View); ok {
		return r.sendView(view)
	}
	want := []media.Type{t}
	if t.IsWildcardType() && t.IsWildcardSubtype() {
		want = r.negotiable()
	}
	conv, ok := r.selector.ForWrite(v, want)
	if !ok {
		return dispatch.NewHTTPError(http.StatusNotAcceptable, media.Join(want))
	}
	return r.write(v, conv, matchedType(conv, want))
}

func (r *Response) sendView(view body.View) error {
	if r.committed {
		return dispatch.ErrCommitted
	}
	var buf bytes.Buffer
	if err := r.views(&buf, view, r.charset); err != nil {
		return err
	}
	return r.commit(media.HTML, buf.Bytes())
}

func (r *Response) write(v any, conv body.Converter, t media.Type) error {
	if r.committed {
		return dispatch.ErrCommitted
	}
	var buf bytes.Buffer
	if err := conv.Write(&buf, v); err != nil {
		return err
	}
	return r.commit(t, buf.Bytes())
}

// commit flushes headers and the buffered payload. Charset is appended for
// text types only; RFC 8259 JSON is always UTF-8.
func (r *Response) commit(t media.Type, payload []byte) error {
	header := r.w.Header()
	if header.Get("Content-Type") == "" {
		name := t.Name()
		if strings.HasPrefix(name, "text/") {
			name += "; charset=" + r.charset
		}
		header.Set("Content-Type", name)
	}
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.w.WriteHeader(r.status)
	r.committed = true
	_, err := r.w.Write(payload)
	return err
}

// matchedType picks the wire type for a chosen converter: the first
// converter type compatible with the negotiated list, or its first type
// when the converter was forced past negotiation.
func matchedType(conv body.Converter, want []media.Type) media.Type {
	for _, w := range want {
		for _, t := range conv.Types() {
			if w.Matches(t) {
				return t
			}
		}
	}
	if types := conv.Types(); len(types) > 0 {
		return types[0]
	}
	return media.OctetStream
}

type formatter struct {
	res     *Response
	entries []formatEntry
}

type formatEntry struct {
	t      media.Type
	supply func() (any, error)
}

// When registers a supplier for a media type.
func (f *formatter) When(t media.Type, supply func() (any, error)) dispatch.Formatter {
	f.entries = append(f.entries, formatEntry{t: t, supply: supply})
	return f
}

// Send picks the best strategy for the accept list, runs its supplier and
// sends the result. With no compatible strategy it fails with a 406.
func (f *formatter) Send() error {
	accept := f.res.accept
	if len(accept) == 0 {
		accept = []media.Type{media.All}
	}
	for _, acc := range media.SortedByPriority(accept) {
		for _, entry := range f.entries {
			if acc.Matches(entry.t) {
				v, err := entry.supply()
				if err != nil {
					return err
				}
				return f.res.sendFor(v, entry.t)
			}
		}
	}
	return dispatch.NewHTTPError(http.StatusNotAcceptable, media.Join(accept))
}
