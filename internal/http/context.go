package http

import (
	"context"

	"github.com/example/appointment-desk/internal/application"
)

type contextKey string

const actorContextKey contextKey = "actor"

// ContextWithActor returns a derived context carrying the resolved acting user.
func ContextWithActor(ctx context.Context, actor application.CurrentUser) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFromContext extracts the acting user from context if available.
func ActorFromContext(ctx context.Context) (application.CurrentUser, bool) {
	actor, ok := ctx.Value(actorContextKey).(application.CurrentUser)
	return actor, ok
}
