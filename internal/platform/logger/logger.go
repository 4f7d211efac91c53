// Package logger builds the application slog.Logger. Production and staging
// emit JSON for log shipping; everything else gets human-readable text.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a logger configured for the given environment.
func New(environment string) *slog.Logger {
	level := slog.LevelInfo
	if lvl := strings.ToLower(os.Getenv("LOG_LEVEL")); lvl != "" {
		switch lvl {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(environment) {
	case "production", "staging":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
