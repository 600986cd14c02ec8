// Package logging adapts log/slog to the domain Logger interface.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ochairo/chromium-snapshots/internal/domain/interfaces"
)

// SlogLogger implements interfaces.Logger on top of a slog.Logger
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps an existing slog.Logger
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

// New builds a logger writing to w. format is "text" or "json"; level is one
// of debug, info, warn, error.
func New(w io.Writer, level, format string) (*SlogLogger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}

	return NewSlogLogger(slog.New(handler)), nil
}

// ParseLevel maps a level name to a slog.Level
func ParseLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("unsupported log level: %s", level)
	}
	return lvl, nil
}

// Slog returns the underlying slog.Logger
func (l *SlogLogger) Slog() *slog.Logger {
	return l.logger
}

// Debug logs debug-level messages
func (l *SlogLogger) Debug(msg string, fields ...interfaces.Field) {
	l.logger.Debug(msg, attrs(fields)...)
}

// Info logs informational messages
func (l *SlogLogger) Info(msg string, fields ...interfaces.Field) {
	l.logger.Info(msg, attrs(fields)...)
}

// Warn logs warning messages
func (l *SlogLogger) Warn(msg string, fields ...interfaces.Field) {
	l.logger.Warn(msg, attrs(fields)...)
}

// Error logs error messages
func (l *SlogLogger) Error(msg string, fields ...interfaces.Field) {
	l.logger.Error(msg, attrs(fields)...)
}

func attrs(fields []interfaces.Field) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, slog.String(f.Key, err.Error()))
			continue
		}
		out = append(out, slog.Any(f.Key, f.Value))
	}
	return out
}
