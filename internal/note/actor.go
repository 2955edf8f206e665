package note

import "context"

// Actor is the user attributed as performing a mutation. It rides the request
// context rather than ambient worker state, so it cannot leak between
// requests: the context dies with the request on every exit path.
type Actor struct {
	ID       uint64
	Username string
}

type actorKey struct{}

// WithActor returns a context carrying the acting user for the duration of
// one request.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns the acting user, or false if the request is
// anonymous or no actor was established.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || a.ID == 0 {
		return Actor{}, false
	}
	return a, true
}

// resolveActor prefers an explicit per-call override over the ambient request
// context. Returns nil when no actor is resolvable; callers then skip audit
// emission rather than writing an event with an invalid reference.
func resolveActor(ctx context.Context, override *Actor) *Actor {
	if override != nil && override.ID != 0 {
		a := *override
		return &a
	}
	if a, ok := ActorFromContext(ctx); ok {
		return &a
	}
	return nil
}
