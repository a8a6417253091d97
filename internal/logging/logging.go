// Package logging builds the diagnostic slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// New returns a text logger at level. With a non-empty path it appends to
// that file; otherwise it writes to fallback (nil means discard). The
// returned close func is always safe to call.
func New(level slog.Level, path string, fallback io.Writer) (*slog.Logger, func() error, error) {
	w := fallback
	closer := func() error { return nil }
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f.Close
	}
	if w == nil {
		w = io.Discard
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h), closer, nil
}
