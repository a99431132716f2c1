// Package logger wraps zerolog behind a small component-tagged interface.
package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Fields carries structured key/value pairs for one log line.
type Fields map[string]any

// Logger provides structured logging tagged with the emitting component.
type Logger interface {
	Info(component, message string, fields Fields)
	Warning(component, message string, fields Fields)
	Error(component string, err error, fields Fields)
	Debug(component, message string, fields Fields)
}

// ZerologAdapter implements Logger on top of zerolog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerolog writes JSON lines to w at the given minimum level.
func NewZerolog(w io.Writer, level zerolog.Level) *ZerologAdapter {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.DurationFieldInteger = true

	l := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &ZerologAdapter{logger: l}
}

// NewConsoleLogger writes human-readable lines to w.
func NewConsoleLogger(w io.Writer, level zerolog.Level) *ZerologAdapter {
	return NewZerolog(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: "15:04:05",
	}, level)
}

// Nop returns a logger that discards everything.
func Nop() *ZerologAdapter {
	return &ZerologAdapter{logger: zerolog.Nop()}
}

// ParseLevel maps a level name ("debug", "info", "warn", "error", ...)
// to a zerolog level. An empty name means info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	if name == "warning" {
		name = "warn"
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("logger: unknown level %q: %w", name, err)
	}
	return level, nil
}

func (z *ZerologAdapter) Info(component, message string, fields Fields) {
	emit(z.logger.Info(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Warning(component, message string, fields Fields) {
	emit(z.logger.Warn(), component, fields).Msg(message)
}

func (z *ZerologAdapter) Error(component string, err error, fields Fields) {
	emit(z.logger.Error(), component, fields).Err(err).Msg("operation failed")
}

func (z *ZerologAdapter) Debug(component, message string, fields Fields) {
	emit(z.logger.Debug(), component, fields).Msg(message)
}

// emit attaches the component and fields. zerolog returns a nil event for
// disabled levels and every method on it is a no-op.
func emit(event *zerolog.Event, component string, fields Fields) *zerolog.Event {
	if event == nil {
		return nil
	}
	event = event.Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	return event
}
