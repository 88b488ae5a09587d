package logging

import (
	"io"
	"log/slog"
	"os"
)

// SetupJSON sets slog's default logger to JSON output on stdout at the given
// level and returns it. Every record carries the service name.
func SetupJSON(level slog.Level, service string) *slog.Logger {
	logger := NewJSON(os.Stdout, level, service)
	slog.SetDefault(logger)

	return logger
}

// NewJSON builds a JSON logger writing to w.
func NewJSON(w io.Writer, level slog.Level, service string) *slog.Logger {
	logger := slog.New(
		slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
	)

	if service != "" {
		logger = logger.With(slog.String("service", service))
	}

	return logger
}
