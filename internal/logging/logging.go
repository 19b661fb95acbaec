package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Setup installs the default slog logger writing to w at the given level
// ("debug", "info", "warn", "error") in "text" or "json" format.
func Setup(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	l := slog.New(h)
	slog.SetDefault(l)
	return l, nil
}
