package serving

import (
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ServerConfig configures the HTTP server helper.
type ServerConfig struct {
	// Addr is the listen address, ":8080" when empty.
	Addr string

	// H2C accepts cleartext HTTP/2 alongside HTTP/1.1 on the same
	// listener.
	H2C bool

	// ReadTimeout and WriteTimeout carry stdlib semantics: zero means no
	// limit.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Hostname is the value written to the X-Server-Hostname response
	// header. Resolution order: Hostname field, then HostnameEnv
	// environment variables, then os.Hostname.
	Hostname string

	// HostnameEnv is a list of environment variable names checked in
	// order (e.g. ["POD_NAME", "HOSTNAME"]). The first non-empty value
	// is used. Only consulted when Hostname is empty.
	HostnameEnv []string
}

// NewServer builds an http.Server around handler. The hostname is
// resolved once here; it returns an error if none can be determined.
func NewServer(handler http.Handler, cfg ServerConfig) (*http.Server, error) {
	hostname, err := resolveHostname(cfg)
	if err != nil {
		return nil, err
	}

	wrapped := identifyingHandler(handler, hostname)
	if cfg.H2C {
		wrapped = h2c.NewHandler(wrapped, &http2.Server{})
	}

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:         addr,
		Handler:      wrapped,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

// ListenAndServe builds the server and serves until it fails.
func ListenAndServe(handler http.Handler, cfg ServerConfig) error {
	server, err := NewServer(handler, cfg)
	if err != nil {
		return err
	}
	return server.ListenAndServe()
}

func resolveHostname(cfg ServerConfig) (string, error) {
	if cfg.Hostname != "" {
		return cfg.Hostname, nil
	}
	for _, env := range cfg.HostnameEnv {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			return v, nil
		}
	}
	return os.Hostname()
}

func identifyingHandler(next http.Handler, hostname string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Server-Hostname", hostname)
		next.ServeHTTP(w, r)
	})
}
