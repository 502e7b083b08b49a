package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "jooby.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "utf-8", cfg.Charset)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.StackTraces)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
listen: ":9090"
h2c: true
log_format: json
read_timeout: 5s
stack_traces: false
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, ":9090", cfg.Listen)
		assert.True(t, cfg.H2C)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, 5*time.Second, cfg.ReadTimeout.Std())
		assert.False(t, cfg.StackTraces)

		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "utf-8", cfg.Charset)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "listen: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("invalid duration", func(t *testing.T) {
		_, err := Load(writeConfig(t, "read_timeout: banana"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "banana")
	})

	t.Run("invalid settings fail validation", func(t *testing.T) {
		_, err := Load(writeConfig(t, "log_level: shouty"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shouty")
	})
}

func TestValidate(t *testing.T) {
	t.Run("aggregates every failure", func(t *testing.T) {
		cfg := Default()
		cfg.Listen = ""
		cfg.LogLevel = "shouty"
		cfg.LogFormat = "xml"
		cfg.AcceptCacheSize = 0

		err := cfg.Validate()
		require.Error(t, err)

		var merr *multierror.Error
		require.True(t, errors.As(err, &merr))
		assert.Len(t, merr.Errors, 4)
	})

	t.Run("unknown charset", func(t *testing.T) {
		cfg := Default()
		cfg.Charset = "no-such-charset"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no-such-charset")
	})

	t.Run("empty charset is allowed", func(t *testing.T) {
		cfg := Default()
		cfg.Charset = ""
		assert.NoError(t, cfg.Validate())
	})
}

func TestLogger(t *testing.T) {
	t.Run("applies level and format", func(t *testing.T) {
		cfg := Default()
		cfg.LogLevel = "trace"
		cfg.LogFormat = "json"

		logger, err := cfg.Logger()
		require.NoError(t, err)

		assert.Equal(t, logrus.TraceLevel, logger.GetLevel())
		assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
	})

	t.Run("text format keeps the default formatter", func(t *testing.T) {
		logger, err := Default().Logger()
		require.NoError(t, err)
		assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
	})

	t.Run("invalid level", func(t *testing.T) {
		cfg := Default()
		cfg.LogLevel = "shouty"

		_, err := cfg.Logger()
		assert.Error(t, err)
	})
}

func TestEngineConfig(t *testing.T) {
	logger := logrus.New()
	cfg := Default()
	cfg.Charset = "latin1"
	cfg.StackTraces = false

	ec := cfg.EngineConfig(logger)

	assert.Equal(t, "latin1", ec.Charset)
	assert.Same(t, logger, ec.Logger)
	assert.NotNil(t, ec.AcceptCache)
	assert.True(t, ec.DisableStackTraces)
}

func TestServerConfig(t *testing.T) {
	cfg := Default()
	cfg.Listen = ":9090"
	cfg.H2C = true
	cfg.ReadTimeout = Duration(5 * time.Second)

	sc := cfg.ServerConfig()

	assert.Equal(t, ":9090", sc.Addr)
	assert.True(t, sc.H2C)
	assert.Equal(t, 5*time.Second, sc.ReadTimeout)
}

func TestDurationYAML(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		out, err := yaml.Marshal(Duration(90 * time.Second))
		require.NoError(t, err)
		assert.Equal(t, "1m30s\n", string(out))

		var d Duration
		require.NoError(t, yaml.Unmarshal(out, &d))
		assert.Equal(t, 90*time.Second, d.Std())
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		var d Duration
		assert.Error(t, yaml.Unmarshal([]byte("soon"), &d))
	})
}
