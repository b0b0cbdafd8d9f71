// Package logger configures structured JSON logging for the service.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup creates a JSON slog.Logger writing to the given writer.
func Setup(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

// SetupDefault installs a JSON logger as the global slog default.
// Pass nil to log to stdout.
func SetupDefault(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	slog.SetDefault(Setup(w))
}
