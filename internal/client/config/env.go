package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvAPIBaseURL     = "DASH_API_URL"
	EnvProfilePath    = "DASH_PROFILE_PATH"
	EnvRequestTimeout = "DASH_REQUEST_TIMEOUT"
	EnvSessionBackend = "DASH_SESSION_BACKEND"
	EnvDatabasePath   = "DASH_DB_PATH"
	EnvRedisURL       = "DASH_REDIS_URL"
	EnvStorageKey     = "DASH_STORAGE_KEY"
	EnvLogLevel       = "DASH_LOG_LEVEL"
)

// parseEnv loads envFile into the process environment when it exists
// (without overriding variables already set) and overlays cfg with the
// DASH_* variables found through lookup.
func parseEnv(cfg *Config, envFile string, lookup func(string) (string, bool)) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	fields := map[string]*string{
		EnvAPIBaseURL:     &cfg.APIBaseURL,
		EnvProfilePath:    &cfg.ProfilePath,
		EnvSessionBackend: &cfg.SessionBackend,
		EnvDatabasePath:   &cfg.DatabasePath,
		EnvRedisURL:       &cfg.RedisURL,
		EnvStorageKey:     &cfg.StorageKey,
		EnvLogLevel:       &cfg.LogLevel,
	}
	for name, dst := range fields {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(EnvRequestTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
