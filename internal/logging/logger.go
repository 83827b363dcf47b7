package logging

import (
	"io"
	"log/slog"
)

// NewLogger builds a text logger writing to w at the given level. The
// CLI wires this to stderr; library code never constructs it.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
