package config

import (
	"fmt"
	"io"
	"log/slog"

	"braces.dev/errtrace"
)

// NewLogger builds a text or JSON slog logger at the configured level
func NewLogger(cfg LoggingConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, errtrace.Wrap(fmt.Errorf("%w: invalid log format: %s", ErrInvalidConfig, cfg.Format))
	}

	return slog.New(handler), nil
}

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errtrace.Wrap(fmt.Errorf("%w: invalid log level: %s", ErrInvalidConfig, level))
	}
}
