package httpapi

import (
	"context"

	"bookingdesk/internal/domain/entity"
)

type ctxKey string

const ctxKeyActor ctxKey = "actor"

func WithActor(ctx context.Context, actor entity.Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, actor)
}

func ActorFromContext(ctx context.Context) (entity.Actor, bool) {
	actor, ok := ctx.Value(ctxKeyActor).(entity.Actor)
	return actor, ok
}
