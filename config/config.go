// Package config loads engine and server settings from a YAML file,
// applying defaults and aggregating validation failures.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"

	"github.com/jayfeihe/jooby/dispatch"
	"github.com/jayfeihe/jooby/media"
	"github.com/jayfeihe/jooby/serving"
)

// Duration is a time.Duration that marshals to and from YAML strings
// like "30s" or "2m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config carries the settings for an engine and its HTTP server.
type Config struct {
	// Listen is the server bind address.
	Listen string `yaml:"listen"`

	// H2C accepts cleartext HTTP/2 alongside HTTP/1.1.
	H2C bool `yaml:"h2c"`

	// ReadTimeout and WriteTimeout bound request processing; zero means
	// no limit.
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`

	// Charset is the default request charset.
	Charset string `yaml:"charset"`

	// LogLevel is any logrus level name; LogFormat is "text" or "json".
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// StackTraces includes stack traces in error responses.
	StackTraces bool `yaml:"stack_traces"`

	// AcceptCacheSize and AcceptCacheTTL bound the accept header parse
	// cache.
	AcceptCacheSize int64    `yaml:"accept_cache_size"`
	AcceptCacheTTL  Duration `yaml:"accept_cache_ttl"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Listen:          ":8080",
		Charset:         "utf-8",
		LogLevel:        "info",
		LogFormat:       "text",
		StackTraces:     true,
		AcceptCacheSize: media.DefaultCacheSize,
		AcceptCacheTTL:  Duration(media.DefaultCacheTTL),
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field and aggregates all failures into one error.
func (c Config) Validate() error {
	var result *multierror.Error

	if c.Listen == "" {
		result = multierror.Append(result, errors.New("config: listen address must not be empty"))
	}
	if c.Charset != "" {
		if _, err := htmlindex.Get(c.Charset); err != nil {
			result = multierror.Append(result, fmt.Errorf("config: unknown charset %q", c.Charset))
		}
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("config: invalid log level %q", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		result = multierror.Append(result, fmt.Errorf("config: log format must be text or json, got %q", c.LogFormat))
	}
	if c.AcceptCacheSize < 1 {
		result = multierror.Append(result, errors.New("config: accept cache size must be at least 1"))
	}
	if c.AcceptCacheTTL.Std() <= 0 {
		result = multierror.Append(result, errors.New("config: accept cache ttl must be positive"))
	}

	return result.ErrorOrNil()
}

// Logger builds a logrus logger from the configured level and format.
func (c Config) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: invalid log level %q: %w", c.LogLevel, err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}

// EngineConfig maps the file settings onto an engine configuration.
// Converter and type provider defaults are left to the engine.
func (c Config) EngineConfig(logger *logrus.Logger) dispatch.Config {
	return dispatch.Config{
		Charset:            c.Charset,
		Logger:             logger,
		AcceptCache:        media.NewParseCache(c.AcceptCacheSize, c.AcceptCacheTTL.Std()),
		DisableStackTraces: !c.StackTraces,
	}
}

// ServerConfig maps the file settings onto the serving helper.
func (c Config) ServerConfig() serving.ServerConfig {
	return serving.ServerConfig{
		Addr:         c.Listen,
		H2C:          c.H2C,
		ReadTimeout:  c.ReadTimeout.Std(),
		WriteTimeout: c.WriteTimeout.Std(),
	}
}
