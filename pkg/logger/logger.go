package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service logger.
// level: "debug", "info", "warn", "error" (default: "info")
// format: "json" or "console" (default: "json")
func New(level, format, serviceName string) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, format, serviceName)
}

func NewWithWriter(w io.Writer, level, format, serviceName string) zerolog.Logger {
	var lvl zerolog.Level
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "info":
		lvl = zerolog.InfoLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	default:
		lvl = zerolog.InfoLevel
	}

	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(w).Level(lvl).With().Timestamp()
	if serviceName != "" {
		ctx = ctx.Str("service_name", serviceName)
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		ctx = ctx.Str("hostname", hostname)
	}
	return ctx.Logger()
}
