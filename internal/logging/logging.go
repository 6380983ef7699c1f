// Package logging owns the process logger and the plumbing that carries a
// request-scoped logger through a context.
package logging

import (
	"context"
	"io"
	"log/slog"
)

type loggerKey struct{}

// New builds the process logger: JSON records on w, filtered at level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ContextWithLogger stores logger on the context so downstream handlers can
// log with the request attributes already attached. Nil inputs leave the
// context untouched.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored by ContextWithLogger, or nil when
// the context carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	logger, _ := ctx.Value(loggerKey{}).(*slog.Logger)
	return logger
}
