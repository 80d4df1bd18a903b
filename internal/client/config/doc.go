// Package config loads runtime configuration for the dashboard client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. DASH_* environment variables, optionally read from a .env file.
//  4. Command-line flags.
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://api.motogestor.example",
//	  "profile_path": "/auth/me",
//	  "request_timeout": "10s",
//	  "session_backend": "sqlite",
//	  "database_path": "dashboard.db",
//	  "redis_url": "redis://localhost:6379/0",
//	  "storage_key": "motogestor_auth",
//	  "log_level": "info"
//	}
package config
