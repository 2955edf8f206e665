package middleware

import (
	"net/http"

	"quill/internal/auth"
	"quill/internal/note"
)

// ActorContext bridges the authenticated principal into the note layer's
// actor context. Runs after auth.RequireAuth; anonymous requests pass through
// without an actor and downstream audit emission degrades silently.
func ActorContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p, ok := auth.PrincipalFromContext(r.Context()); ok {
				ctx := note.WithActor(r.Context(), note.Actor{ID: p.UserID, Username: p.Username})
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}
