package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/motogestor/dashclient/internal/flagx"
)

var ownFlags = []string{"a", "p", "t", "b", "d", "r", "l"}

// parseFlags overlays cfg with command-line flags.
//
//	-a string   API base URL
//	-p string   profile endpoint path
//	-t duration request timeout (e.g. 10s, 1500ms)
//	-b string   session backend (sqlite|redis)
//	-d string   SQLite database file
//	-r string   Redis URL
//	-l string   log level
//
// Only these flags are parsed; the rest of the command line is left to
// other loaders.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("dashclient", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.ProfilePath, "p", cfg.ProfilePath, "profile endpoint path")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout (e.g. 10s, 1500ms)")
	fs.StringVar(&cfg.SessionBackend, "b", cfg.SessionBackend, "session backend (sqlite|redis)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "SQLite database file")
	fs.StringVar(&cfg.RedisURL, "r", cfg.RedisURL, "Redis URL")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags...)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
