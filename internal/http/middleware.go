package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/appointment-desk/internal/application"
	"github.com/example/appointment-desk/internal/logging"
)

// ActingUserHeader names the header that identifies the desk user performing
// a request. The resolved user is stamped into audit fields on every write.
const ActingUserHeader = "X-Acting-User"

const requestIDHeader = "X-Request-ID"

// UserResolver turns a username into an acting user for audit stamping.
type UserResolver interface {
	ResolveUser(ctx context.Context, username string) (application.CurrentUser, error)
}

// RequestID assigns each request an identifier, preferring one supplied by
// an upstream proxy, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := context.WithValue(r.Context(), requestIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

const requestIDContextKey contextKey = "request_id"

// RequestIDFromContext extracts the request identifier if one was assigned.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey).(string)
	return id, ok
}

// RequestLogger attaches a per-request logger to the context and records the
// request lifecycle.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base.With(
				"method", r.Method,
				"path", r.URL.Path,
			)
			if id, ok := RequestIDFromContext(r.Context()); ok {
				logger = logger.With("request_id", id)
			}

			ctx := logging.ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}

// RequireUser resolves the acting user named by the request header and makes
// it available to handlers. Requests without a resolvable user are rejected.
func RequireUser(resolver UserResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := strings.TrimSpace(r.Header.Get(ActingUserHeader))
			if username == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingActingUser)
				return
			}

			actor, err := resolver.ResolveUser(r.Context(), username)
			if err != nil {
				if errors.Is(err, application.ErrNotFound) {
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Message: "the acting user is not recognized"})
					return
				}
				responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{Message: "failed to resolve the acting user"})
				return
			}

			ctx := ContextWithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
