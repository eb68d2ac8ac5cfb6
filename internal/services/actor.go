// filepath: internal/services/actor.go
package services

import "context"

type actorKey struct{}

// DefaultActor is recorded in audit events when the context carries no actor.
const DefaultActor = "system"

// WithActor returns a context that attributes audit events to actor.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by WithActor.
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return DefaultActor
}
