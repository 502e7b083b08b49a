package media

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"gitlab.com/gitlab-org/go-mimedb"
)

var (
	seedOnce sync.Once
	seedErr  error
)

// TypeProvider resolves media types for file names and extensions. It seeds
// the process wide mime table from the bundled database so lookups do not
// depend on the host's /etc/mime.types.
type TypeProvider struct{}

// NewTypeProvider returns a provider backed by the shared mime database.
func NewTypeProvider() (*TypeProvider, error) {
	seedOnce.Do(func() {
		seedErr = mimedb.LoadTypes()
	})
	if seedErr != nil {
		return nil, fmt.Errorf("media: load mime database: %w", seedErr)
	}
	return &TypeProvider{}, nil
}

// ByExtension resolves a media type for an extension such as ".json" or
// "json".
func (p *TypeProvider) ByExtension(ext string) (Type, bool) {
	if ext == "" {
		return Type{}, false
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	name := mime.TypeByExtension(ext)
	if name == "" {
		return Type{}, false
	}
	t, err := ParseType(name)
	if err != nil {
		return Type{}, false
	}
	return t, true
}

// ByFile resolves a media type from a file name, falling back to
// application/octet-stream for unknown extensions.
func (p *TypeProvider) ByFile(name string) Type {
	if t, ok := p.ByExtension(filepath.Ext(name)); ok {
		return t
	}
	return OctetStream
}
