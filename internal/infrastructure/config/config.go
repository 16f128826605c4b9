package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Shell     ShellConfig
	Probe     ProbeConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string   `envconfig:"PORT" default:"8000"`
	Host        string   `envconfig:"HOST" default:"0.0.0.0"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// ShellConfig holds shell orchestration configuration.
type ShellConfig struct {
	// Environment selects per-environment application entries
	Environment  string        `envconfig:"SHELL_ENV" default:"development"`
	AppsDir      string        `envconfig:"SHELL_APPS_DIR" default:"config/apps"`
	MenuFile     string        `envconfig:"SHELL_MENU_FILE" default:"config/menu.yaml"`
	MenuURL      string        `envconfig:"SHELL_MENU_URL"`
	ViewsDir     string        `envconfig:"SHELL_VIEWS_DIR"`
	ViewPattern  string        `envconfig:"SHELL_VIEW_PATTERN" default:"**/*.vue"`
	HomePath     string        `envconfig:"SHELL_HOME" default:"/dashboard"`
	MainPrefixes []string      `envconfig:"SHELL_MAIN_PREFIXES" default:"/dashboard,/user-center,/system,/child,/user,/test"`
	Watch        bool          `envconfig:"SHELL_WATCH" default:"true"`
	SessionTTL   time.Duration `envconfig:"SHELL_SESSION_TTL" default:"30m"`
}

// ProbeConfig holds sub-application entry probe configuration.
type ProbeConfig struct {
	Timeout     time.Duration `envconfig:"PROBE_TIMEOUT" default:"3s"`
	Retries     int           `envconfig:"PROBE_RETRIES" default:"1"`
	Concurrency int           `envconfig:"PROBE_CONCURRENCY" default:"4"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables. Variables missing
// from the environment are taken from a .env file in the working
// directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8000",
			Host:        "0.0.0.0",
			CORSOrigins: []string{"*"},
		},
		Shell: ShellConfig{
			Environment:  "development",
			AppsDir:      "config/apps",
			MenuFile:     "config/menu.yaml",
			ViewPattern:  "**/*.vue",
			HomePath:     "/dashboard",
			MainPrefixes: []string{"/dashboard", "/user-center", "/system", "/child", "/user", "/test"},
			Watch:        true,
			SessionTTL:   30 * time.Minute,
		},
		Probe: ProbeConfig{
			Timeout:     3 * time.Second,
			Retries:     1,
			Concurrency: 4,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
