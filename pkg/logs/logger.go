// Package logs builds the slog logger junonc hands to the compiler.
package logs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"

	"junon/pkg/config"
)

var level = new(slog.LevelVar)

// SetLevel changes the level of every logger built by New.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// ParseLevel maps a config level name to its slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}

// New builds a logger writing text to w and, when cfg.File is set, also to
// that file in cfg.Format. The returned closer releases the file.
func New(w io.Writer, cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	l, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	level.Set(l)

	opts := &slog.HandlerOptions{Level: level}
	handlers := []slog.Handler{
		slog.NewTextHandler(w, opts),
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		closer = f

		if strings.EqualFold(cfg.Format, "text") {
			handlers = append(handlers, slog.NewTextHandler(f, opts))
		} else {
			handlers = append(handlers, slog.NewJSONHandler(f, opts))
		}
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
