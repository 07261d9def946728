// Package logging provides the structured logger for proxyprobe.
//
// Diagnostics go to stderr so that check output on stdout stays clean enough
// to pipe or capture. API keys and bearer tokens are redacted before any
// field reaches the handler.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"probehq/proxyprobe/pkg/config"
)

// New creates a slog.Logger from the logging configuration. When
// secret redaction is enabled, string attribute values pass through a secret
// redactor before being emitted.
func New(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.RedactSecretsEnabled() {
		opts.ReplaceAttr = redactAttr
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format: %s", cfg.Format)
	}

	return slog.New(handler), nil
}

// parseLevel parses a log level string into slog.Level.
func parseLevel(levelStr string) (slog.Level, error) {
	switch levelStr {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", levelStr)
	}
}
