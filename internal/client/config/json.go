package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/motogestor/dashclient/internal/flagx"
	"github.com/motogestor/dashclient/internal/timex"
)

// JsonConfig is the on-disk shape. Intervals use timex.Duration so they can
// be written as "10s" or as integer nanoseconds. Absent fields keep the
// value from the previous source.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	ProfilePath    *string         `json:"profile_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	SessionBackend *string         `json:"session_backend"`
	DatabasePath   *string         `json:"database_path"`
	RedisURL       *string         `json:"redis_url"`
	StorageKey     *string         `json:"storage_key"`
	LogLevel       *string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c / -config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.ProfilePath, jc.ProfilePath)
	setString(&cfg.SessionBackend, jc.SessionBackend)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.RedisURL, jc.RedisURL)
	setString(&cfg.StorageKey, jc.StorageKey)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
