package http

import (
	"context"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
)

type actorKey struct{}

func withActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// actorFromContext returns the caller resolved by the auth middleware.
// Public routes carry no actor.
func actorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}
