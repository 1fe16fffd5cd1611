// Package logging provides the structured logger used across colmap.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Logger defines the key/value logging interface used by colmap packages.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ZeroLogger is a Logger backed by zerolog.
type ZeroLogger struct {
	logger zerolog.Logger
}

// New creates a ZeroLogger writing to w. format is "json" or "console".
func New(w io.Writer, level, format string) (*ZeroLogger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	switch strings.ToLower(format) {
	case "", "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	default:
		return nil, fmt.Errorf("invalid log format %q: want json or console", format)
	}

	return &ZeroLogger{
		logger: zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
	}, nil
}

// With returns a child logger that adds the given key/value pairs to every entry.
func (l *ZeroLogger) With(keysAndValues ...interface{}) *ZeroLogger {
	ctx := l.logger.With()
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		if i+1 < len(keysAndValues) {
			ctx = ctx.Interface(key, keysAndValues[i+1])
		} else {
			ctx = ctx.Interface(key, nil)
		}
	}

	return &ZeroLogger{logger: ctx.Logger()}
}

func (l *ZeroLogger) log(event *zerolog.Event, msg string, keysAndValues ...interface{}) {
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		if i+1 < len(keysAndValues) {
			if err, ok := keysAndValues[i+1].(error); ok {
				event.AnErr(key, err)

				continue
			}

			event.Interface(key, keysAndValues[i+1])
		} else {
			event.Interface(key, nil)
		}
	}
	event.Msg(msg)
}

// Debug logs a debug-level message with structured key/value pairs.
func (l *ZeroLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(l.logger.Debug(), msg, keysAndValues...)
}

// Info logs an info-level message with structured key/value pairs.
func (l *ZeroLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log(l.logger.Info(), msg, keysAndValues...)
}

// Warn logs a warning-level message with structured key/value pairs.
func (l *ZeroLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(l.logger.Warn(), msg, keysAndValues...)
}

// Error logs an error-level message with structured key/value pairs.
func (l *ZeroLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log(l.logger.Error(), msg, keysAndValues...)
}

// Nop returns a Logger that discards everything.
func Nop() *ZeroLogger {
	return &ZeroLogger{logger: zerolog.Nop()}
}
