package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp keeps a developer's .env out of the test.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "PONTO_") {
			t.Setenv(key, "")
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "ponto.db", filepath.Base(cfg.Database.DSN))
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Lock.TTL)
	assert.Equal(t, "ponto.sessions", cfg.AMQP.Exchange)
	assert.Empty(t, cfg.AMQP.URL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	require.NoError(t, cfg.Validate())
	assert.Error(t, cfg.ValidateServe(), "serving needs a JWT secret")
}

func TestLoad_FromEnv(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	t.Setenv("PONTO_DB_DRIVER", "postgres")
	t.Setenv("PONTO_DB_DSN", "postgres://ponto@localhost/ponto?sslmode=disable")
	t.Setenv("PONTO_JWT_SECRET", "s3cret")
	t.Setenv("PONTO_REDIS_DB", "3")
	t.Setenv("PONTO_LOCK_TTL", "30s")
	t.Setenv("PONTO_READ_TIMEOUT", "not-a-duration")
	t.Setenv("PONTO_ACTOR", "officer-9")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 30*time.Second, cfg.Lock.TTL)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout, "bad values fall back to the default")
	assert.Equal(t, "officer-9", cfg.CLI.Actor)
	require.NoError(t, cfg.ValidateServe())
}

func TestLoad_DotEnv(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("PONTO_HTTP_ADDR=:9090\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PONTO_HTTP_ADDR") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: "sqlite", DSN: "x.db"},
			Log:      LogConfig{Format: "json"},
			Lock:     LockConfig{TTL: time.Second},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"ok", func(*Config) {}, ""},
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }, "unsupported driver"},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }, "PONTO_DB_DSN"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "unsupported format"},
		{"zero ttl", func(c *Config) { c.Lock.TTL = 0 }, "PONTO_LOCK_TTL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
