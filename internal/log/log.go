// Package log configures structured logging for modgraph using log/slog.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Level maps the verbosity flags to a slog level.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above
//
// Quiet wins when both flags are set.
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// New returns a logger writing to w. When json is set the handler emits one
// JSON object per record (useful when the MCP server's stderr is captured by
// a host); otherwise it uses slog.TextHandler.
func New(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup configures the default slog logger based on verbosity flags.
// Output is written to stderr.
func Setup(verbose, quiet, json bool) {
	slog.SetDefault(New(os.Stderr, Level(verbose, quiet), json))
}
