package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds runtime settings for the dashboard client.
//
// Fields:
//   - APIBaseURL: scheme://host[:port] of the dashboard API gateway.
//   - ProfilePath: "who am I" endpoint used after login (/auth/me or /me).
//   - RequestTimeout: bound applied to every single API call.
//   - SessionBackend: where the session record lives, "sqlite" or "redis".
//   - DatabasePath: SQLite file for the sqlite backend.
//   - RedisURL: redis:// URL for the redis backend.
//   - StorageKey: key of the persisted session record.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL     string
	ProfilePath    string
	RequestTimeout time.Duration
	SessionBackend string
	DatabasePath   string
	RedisURL       string
	StorageKey     string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.ProfilePath = "/auth/me"
	c.RequestTimeout = 10 * time.Second
	c.SessionBackend = BackendSQLite
	c.DatabasePath = "dashboard.db"
	c.RedisURL = ""
	c.StorageKey = "motogestor_auth"
	c.LogLevel = "info"
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api base url is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.StorageKey == "" {
		return errors.New("storage key is required")
	}
	switch c.SessionBackend {
	case BackendSQLite:
		if c.DatabasePath == "" {
			return errors.New("database path is required for the sqlite backend")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("redis url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the JSON file (if -c or
// -config is given), then DASH_* environment variables (optionally from
// .env), then command-line flags. Later sources win.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], ".env", os.LookupEnv)
}

func load(args []string, envFile string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, envFile, lookup); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
