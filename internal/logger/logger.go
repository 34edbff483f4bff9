// Package logger carries nitflow's structured logging. Library packages accept
// a Logger option and stay silent by default; the CLI picks the output format
// once and puts the result in the command context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Logger is the subset of slog that flows, manifests and handlers log through.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

type slogLogger struct {
	*slog.Logger
}

func (l slogLogger) With(args ...any) Logger {
	return slogLogger{l.Logger.With(args...)}
}

// New wraps handler.
func New(handler slog.Handler) Logger {
	return slogLogger{slog.New(handler)}
}

// Discard drops every record. It is the default for flows and manifests.
func Discard() Logger {
	return New(slog.DiscardHandler)
}

// ForFormat builds the CLI logger: "json" and "text" select the slog
// handlers, anything else the pretty terminal handler.
func ForFormat(w io.Writer, format string, level slog.Level) Logger {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSON(w, level)
	case "text":
		return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	default:
		return Pretty(w, level)
	}
}

// JSON logs one object per line, with source locations, for log shippers.
func JSON(w io.Writer, level slog.Level) Logger {
	return New(slog.NewJSONHandler(w, &slog.HandlerOptions{AddSource: true, Level: level}))
}

// Pretty logs aligned, optionally colored lines for a terminal.
func Pretty(w io.Writer, level slog.Level) Logger {
	return New(NewPrettyHandler(w, &slog.HandlerOptions{Level: level}))
}

type ctxKey struct{}

// FromContext returns the logger installed by WithContext, or Discard.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return Discard()
}

func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// ParseLevel reads a --log-level value. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
