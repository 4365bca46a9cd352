package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/observability"
)

type LoggerConfig struct {
	Level string `koanf:"level"`
	// Format is "json" (default) or "text".
	Format string `koanf:"format"`
}

func (c LoggerConfig) level() slog.Level {
	switch strings.ToLower(c.Level) {
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

// NewLogger builds the process logger. Records logged with a context carry the
// active trace and span ids.
func (c LoggerConfig) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.level()}

	var handler slog.Handler
	if strings.EqualFold(c.Format, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(observability.HandlerWithSpanContext(handler))
}
