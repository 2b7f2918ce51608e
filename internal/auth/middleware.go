package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/campuscore/user-management/internal/models"
)

type contextKey string

const actorKey contextKey = "actor"

// ActorResolver resolves an opaque bearer token into the account it belongs to.
type ActorResolver interface {
	// Method ResolveToken looks up the session for the given token and returns
	// the owning account.
	//
	// "token" parameter is the opaque bearer token presented by the client.
	//
	// If the token is unknown, revoked, or the account no longer exists, the
	// error will be returned together with "nil" value.
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}

// Middleware validates the bearer token and stores the resolved actor in the
// request context. Requests without a valid token are rejected with 401.
// Inactive accounts are rejected as well so a deactivated user cannot keep
// using a session issued before deactivation.
func Middleware(resolver ActorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				unauthorized(w, "authentication required")
				return
			}

			actor, err := resolver.ResolveToken(r.Context(), token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			if !actor.Active {
				unauthorized(w, "user account is disabled")
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken pulls the bearer token out of the Authorization header.
// Returns an empty string when no token is present.
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}
	return ""
}

// GetActor retrieves the resolved acting account from context
func GetActor(ctx context.Context) (*models.User, bool) {
	actor, ok := ctx.Value(actorKey).(*models.User)
	return actor, ok
}

// WithActor returns a context carrying the given actor. Used by tests and by
// handlers that resolve the actor outside the middleware.
func WithActor(ctx context.Context, actor *models.User) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
