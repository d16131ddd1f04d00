package log

import (
	"log/slog"
	"os"
	"strings"
)

// Option - logger construction option.
type Option func(*options)

type options struct {
	level     slog.Level
	addSource bool
	json      bool
}

// WithLevel sets the minimal log level from a string ("debug", "info", "warn", "error").
func WithLevel(level string) Option {
	return func(o *options) {
		switch strings.ToLower(level) {
		case "debug", "verbose", "all":
			o.level = slog.LevelDebug
		case "warn", "warning":
			o.level = slog.LevelWarn
		case "error", "err":
			o.level = slog.LevelError
		default:
			o.level = slog.LevelInfo
		}
	}
}

// WithSource adds the source file and line to every record.
func WithSource() Option {
	return func(o *options) {
		o.addSource = true
	}
}

// WithJSON switches the output to JSON records.
func WithJSON() Option {
	return func(o *options) {
		o.json = true
	}
}

// New creates a slog.Logger writing to stdout.
func New(opts ...Option) *slog.Logger {
	options := &options{
		level: slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(options)
	}

	handlerOptions := &slog.HandlerOptions{
		Level:     options.level,
		AddSource: options.addSource,
	}

	var handler slog.Handler
	if options.json {
		handler = slog.NewJSONHandler(os.Stdout, handlerOptions)
	} else {
		handler = slog.NewTextHandler(os.Stdout, handlerOptions)
	}

	return slog.New(handler)
}
