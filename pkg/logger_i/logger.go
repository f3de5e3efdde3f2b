package logger_i

import (
	"context"
	"log/slog"
	"os"

	"github.com/akolanti/FaqSearch/internal/config"
)

type Logger struct {
	inner *slog.Logger
}

func Init(isProd bool, level slog.Level) {
	options := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if isProd {
		handler = slog.NewJSONHandler(os.Stdout, options)
	} else {
		handler = slog.NewTextHandler(os.Stdout, options)
	}
	newLogger := slog.New(handler)
	slog.SetDefault(newLogger)
}

func NewLogger(section string) *Logger {
	return &Logger{
		inner: slog.Default().With("component", section),
	}
}

func (l *Logger) Info(msg string, args ...any) {
	l.inner.Info(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.inner.Error(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.inner.Warn(msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.inner.Debug(msg, args...)
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		inner: l.inner.With(args...),
	}
}

// WithTrace attaches the request trace id when the context carries one.
// Library callers may pass a bare context, so a missing id is not an error.
func (l *Logger) WithTrace(ctx context.Context) *Logger {
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok && trace != "" {
		return l.With("traceId", trace)
	}
	return l
}
