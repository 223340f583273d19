package middleware

import (
	"context"
	"net/http"
)

// ActorKey is the context key for the resolved actor ID.
const ActorKey contextKey = "actor_id"

// DefaultActor is used when a request carries no X-User-ID header.
// Authentication is handled upstream; this layer only scopes data.
const DefaultActor = "guest"

// Actor resolves the acting user from the X-User-ID header and stores
// it in the request context for handlers and rate limiters.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := r.Header.Get("X-User-ID")
		if actor == "" {
			actor = DefaultActor
		}

		ctx := context.WithValue(r.Context(), ActorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActor retrieves the actor ID from request context.
func GetActor(ctx context.Context) string {
	if id, ok := ctx.Value(ActorKey).(string); ok {
		return id
	}
	return DefaultActor
}
