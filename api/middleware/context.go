package middleware

import (
	"context"

	"github.com/brokerlane/brokerlane-backend/pkg/auth"
)

type contextKey string

const ctxActor contextKey = "actor"

// ActorFromContext returns the authenticated actor seeded by Auth. The zero
// Actor means the request never passed authentication.
func ActorFromContext(ctx context.Context) auth.Actor {
	if ctx == nil {
		return auth.Actor{}
	}
	if actor, ok := ctx.Value(ctxActor).(auth.Actor); ok {
		return actor
	}
	return auth.Actor{}
}

// WithActor injects the actor into the context.
func WithActor(ctx context.Context, actor auth.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}
