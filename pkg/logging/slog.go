package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/fluxgrid/fluxgrid/pkg/utils"
)

type contextKey string

const loggerKey contextKey = "logger"

// Attribute keys shared across the module so log lines stay greppable.
const (
	LogComponent = "component"
	LogRole      = "role"
	LogGroup     = "group"
)

// SetupTextLogger can be used during development for more readable logs.
func SetupTextLogger(logLevel slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "time",
					Value: slog.StringValue(a.Value.Time().Format("2006-01-02 15:04:05.000")),
				}
			}
			return a
		},
	}

	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// NewTestLogger returns a logger for tests, optionally discarding all output.
func NewTestLogger(logLevel slog.Level, discard bool) *slog.Logger {
	if discard {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return SetupTextLogger(logLevel)
}

// InitLogger builds the process logger from the LOG_LEVEL environment
// variable and installs it as the slog default.
func InitLogger() (*slog.Logger, error) {
	logLevelStr := utils.GetEnvString("LOG_LEVEL", "warn")
	var logLevel slog.Level
	switch logLevelStr {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		return nil, errors.New("invalid log level")
	}

	logger := SetupTextLogger(logLevel)
	slog.SetDefault(logger)
	return logger, nil
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// ComponentLogger tags a logger with the bootstrap component it belongs to.
func ComponentLogger(logger *slog.Logger, component string, kvs ...any) *slog.Logger {
	attrs := append(kvs, slog.String(LogComponent, component))
	return logger.With(attrs...)
}
