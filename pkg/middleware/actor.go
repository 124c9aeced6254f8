package middleware

import (
	"context"
	"net/http"
	"strconv"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ActorIDKey is the context key for the acting user ID
	ActorIDKey ContextKey = "actor_id"
)

// ActorMiddleware resolves the acting user for audit attribution. The wider
// marketplace application fronts this service with real authentication; here
// the actor arrives via the X-Actor-ID header set by that layer, defaulting
// to user 1 for local development.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID := int64(1)
		if v := r.Header.Get("X-Actor-ID"); v != "" {
			if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
				actorID = parsed
			}
		}

		ctx := context.WithValue(r.Context(), ActorIDKey, actorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActorID extracts the acting user ID from the request context
func GetActorID(ctx context.Context) (int64, bool) {
	actorID, ok := ctx.Value(ActorIDKey).(int64)
	return actorID, ok
}
