package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	want := &Config{
		APIBaseURL:     "http://127.0.0.1:8000",
		ProfilePath:    "/auth/me",
		RequestTimeout: 10 * time.Second,
		SessionBackend: BackendSQLite,
		DatabasePath:   "dashboard.db",
		StorageKey:     "motogestor_auth",
		LogLevel:       "info",
	}
	if diff := cmp.Diff(want, defaults()); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, defaults().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty api url", func(c *Config) { c.APIBaseURL = "" }},
		{"empty storage key", func(c *Config) { c.StorageKey = "" }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }},
		{"unknown backend", func(c *Config) { c.SessionBackend = "etcd" }},
		{"sqlite without path", func(c *Config) { c.DatabasePath = "" }},
		{"redis without url", func(c *Config) { c.SessionBackend = BackendRedis }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	c := defaults()
	c.SessionBackend, c.RedisURL = BackendRedis, "redis://localhost:6379/0"
	assert.NoError(t, c.Validate())
}

func TestLoad_NoSourcesGivesDefaults(t *testing.T) {
	cfg, err := load(nil, "", noEnv)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"api_base_url":    "http://json:1",
		"profile_path":    "/me",
		"request_timeout": "3s",
		"log_level":       "debug",
		"database_path":   "json.db",
	})
	env := envOf(map[string]string{
		EnvAPIBaseURL: "http://env:2",
		EnvLogLevel:   "warn",
	})

	cfg, err := load([]string{"-c", path, "-a", "http://flag:3", "-x", "ignored"}, "", env)
	require.NoError(t, err)

	assert.Equal(t, "http://flag:3", cfg.APIBaseURL, "flag beats env and json")
	assert.Equal(t, "warn", cfg.LogLevel, "env beats json")
	assert.Equal(t, "/me", cfg.ProfilePath, "json beats defaults")
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "json.db", cfg.DatabasePath)
	assert.Equal(t, "motogestor_auth", cfg.StorageKey)
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := load([]string{"-t", "30s", "-b", "redis", "-r", "redis://cache:6379/1", "-l", "error", "-p", "/me", "-d", "x.db"}, "", noEnv)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, BackendRedis, cfg.SessionBackend)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "/me", cfg.ProfilePath)
	assert.Equal(t, "x.db", cfg.DatabasePath)
}

func TestLoad_TimeoutFlagTakesDurations(t *testing.T) {
	cfg, err := load([]string{"-t", "1500ms"}, "", noEnv)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)

	_, err = load([]string{"-t", "0s"}, "", noEnv)
	assert.Error(t, err, "a zero timeout would disable the bound")

	_, err = load([]string{"-t", "30"}, "", noEnv)
	assert.Error(t, err, "bare numbers have no unit")
}

func TestLoad_TimeoutFlagNotGivenKeepsSubSecondValue(t *testing.T) {
	cfg, err := load(nil, "", envOf(map[string]string{EnvRequestTimeout: "1500ms"}))
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
}

func TestLoad_Errors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ not json`), 0o600))

	_, err := load([]string{"-config", bad}, "", noEnv)
	assert.Error(t, err, "invalid json")

	_, err = load([]string{"-c", filepath.Join(t.TempDir(), "missing.json")}, "", noEnv)
	assert.Error(t, err, "missing json")

	_, err = load(nil, "", envOf(map[string]string{EnvRequestTimeout: "soon"}))
	assert.Error(t, err, "bad env duration")

	_, err = load([]string{"-t", "abc"}, "", noEnv)
	assert.Error(t, err, "bad flag value")

	_, err = load([]string{"-b", "redis"}, "", noEnv)
	assert.Error(t, err, "redis without url")
}

func TestLoad_DotEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DASH_STORAGE_KEY=from_dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv(EnvStorageKey) })

	cfg, err := load(nil, envFile, os.LookupEnv)
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", cfg.StorageKey)
}

func TestLoad_MissingDotEnvIsFine(t *testing.T) {
	_, err := load(nil, filepath.Join(t.TempDir(), ".env"), noEnv)
	require.NoError(t, err)
}
