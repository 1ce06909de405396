// Package logger configures slog for diagnostic output.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup returns a text slog.Logger writing to w at the given level.
func Setup(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// SetupDefault installs the logger as the process default, writing to
// stderr so diagnostics never mix with command output on stdout.
func SetupDefault(verbose bool) {
	slog.SetDefault(Setup(os.Stderr, verbose))
}
