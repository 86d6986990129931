package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v4"
)

type Config struct {
	Port      string `yaml:"port"`
	LogLevel  string `yaml:"log_level"`
	LogPretty bool   `yaml:"log_pretty"`

	DatabaseURL   string `yaml:"database_url"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	SessionBackend  string `yaml:"session_backend"`  // memory | postgres
	SettingsBackend string `yaml:"settings_backend"` // memory | redis | postgres

	OpenRouter OpenRouter `yaml:"openrouter"`

	ResumeMaxBytes int64 `yaml:"resume_max_bytes"`
}

type OpenRouter struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Model      string        `yaml:"model"`
	AppTitle   string        `yaml:"app_title"`
	Referer    string        `yaml:"referer"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RetryBase  time.Duration `yaml:"retry_base"`
}

func defaults() Config {
	return Config{
		Port:            "8080",
		LogLevel:        "info",
		SessionBackend:  "memory",
		SettingsBackend: "memory",
		OpenRouter: OpenRouter{
			BaseURL:   "https://openrouter.ai/api/v1",
			AppTitle:  "hr-interviewer",
			Timeout:   60 * time.Second,
			RetryBase: 500 * time.Millisecond,
		},
		ResumeMaxBytes: 15 << 20,
	}
}

// Load reads configuration in three layers: defaults, the optional YAML file named by
// CONFIG_FILE, then environment variables (optionally from a .env file).
func Load() (Config, error) {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogPretty = getEnvBool("LOG_PRETTY", cfg.LogPretty)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvInt("REDIS_DB", cfg.RedisDB)
	cfg.SessionBackend = getEnv("SESSION_BACKEND", cfg.SessionBackend)
	cfg.SettingsBackend = getEnv("SETTINGS_BACKEND", cfg.SettingsBackend)

	or := &cfg.OpenRouter
	or.BaseURL = getEnv("OPENROUTER_BASE_URL", or.BaseURL)
	or.APIKey = getEnv("OPENROUTER_API_KEY", or.APIKey)
	or.Model = getEnv("OPENROUTER_MODEL", or.Model)
	or.AppTitle = getEnv("OPENROUTER_APP_TITLE", or.AppTitle)
	or.Referer = getEnv("OPENROUTER_REFERER", or.Referer)
	or.Timeout = getEnvDuration("OPENROUTER_TIMEOUT", or.Timeout)
	or.MaxRetries = getEnvInt("OPENROUTER_MAX_RETRIES", or.MaxRetries)
	or.RetryBase = getEnvDuration("OPENROUTER_RETRY_BASE", or.RetryBase)

	cfg.ResumeMaxBytes = int64(getEnvInt("RESUME_MAX_BYTES", int(cfg.ResumeMaxBytes)))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every selected backend has its connection settings.
func (c Config) Validate() error {
	var errs []error
	switch c.SessionBackend {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("SESSION_BACKEND=postgres requires DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend))
	}
	switch c.SettingsBackend {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("SETTINGS_BACKEND=postgres requires DATABASE_URL"))
		}
	case "redis":
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("SETTINGS_BACKEND=redis requires REDIS_ADDR"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SETTINGS_BACKEND %q", c.SettingsBackend))
	}
	if c.OpenRouter.MaxRetries < 0 {
		errs = append(errs, errors.New("OPENROUTER_MAX_RETRIES must be >= 0"))
	}
	return errors.Join(errs...)
}

// UsesPostgres reports whether any backend needs a database pool.
func (c Config) UsesPostgres() bool {
	return c.SessionBackend == "postgres" || c.SettingsBackend == "postgres"
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
