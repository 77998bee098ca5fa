// Package logger builds the structured slog logger used by the backtester.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const service = "taengine"

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level.
// Unknown strings fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a logger writing to stdout and installs it as the slog default.
// format is "json" or "text".
func New(level, format string) *slog.Logger {
	l := NewWithWriter(os.Stdout, level, format)
	slog.SetDefault(l)
	return l
}

// NewWithWriter is New without touching the default logger.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(slog.String("service", service))
}
