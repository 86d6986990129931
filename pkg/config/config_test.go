package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "LOG_LEVEL", "LOG_PRETTY", "DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD",
		"REDIS_DB", "SESSION_BACKEND", "SETTINGS_BACKEND", "OPENROUTER_BASE_URL", "OPENROUTER_API_KEY",
		"OPENROUTER_MODEL", "OPENROUTER_APP_TITLE", "OPENROUTER_REFERER", "OPENROUTER_TIMEOUT",
		"OPENROUTER_MAX_RETRIES", "OPENROUTER_RETRY_BASE", "RESUME_MAX_BYTES",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.SessionBackend)
	assert.Equal(t, "memory", cfg.SettingsBackend)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouter.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.OpenRouter.Timeout)
	assert.Equal(t, 0, cfg.OpenRouter.MaxRetries)
	assert.Equal(t, int64(15<<20), cfg.ResumeMaxBytes)
	assert.False(t, cfg.UsesPostgres())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
log_level: debug
redis_addr: localhost:6379
settings_backend: redis
openrouter:
  model: anthropic/claude-3.5-sonnet
  timeout: 30s
  max_retries: 2
`), 0o600))

	clearEnv(t)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("OPENROUTER_RETRY_BASE", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port, "env overrides file")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "redis", cfg.SettingsBackend)
	assert.Equal(t, "anthropic/claude-3.5-sonnet", cfg.OpenRouter.Model)
	assert.Equal(t, 30*time.Second, cfg.OpenRouter.Timeout)
	assert.Equal(t, 2, cfg.OpenRouter.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.OpenRouter.RetryBase)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"postgres sessions without dsn", func(c *Config) { c.SessionBackend = "postgres" }, true},
		{"postgres sessions with dsn", func(c *Config) { c.SessionBackend = "postgres"; c.DatabaseURL = "postgres://x" }, false},
		{"redis settings without addr", func(c *Config) { c.SettingsBackend = "redis" }, true},
		{"unknown session backend", func(c *Config) { c.SessionBackend = "mongo" }, true},
		{"unknown settings backend", func(c *Config) { c.SettingsBackend = "localstorage" }, true},
		{"negative retries", func(c *Config) { c.OpenRouter.MaxRetries = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
