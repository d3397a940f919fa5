package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller, as established by the auth
// collaborator in front of this service. The core trusts it without
// re-verifying credentials.
type Identity struct {
	UserID string
	Name   string
	Role   string
}

func (id Identity) IsAdmin() bool {
	return id.Role == "admin"
}

// AuthMiddleware reads the identity the gateway injects into trusted
// headers after validating the caller's token. Requests without an
// identity are rejected before they reach a handler.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			respondError(w, http.StatusUnauthorized, "unauthenticated", "missing user identity")
			return
		}

		identity := Identity{
			UserID: userID,
			Name:   r.Header.Get("X-User-Name"),
			Role:   r.Header.Get("X-User-Role"),
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin guards administrative routes. Must sit behind
// AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := identityFromContext(r.Context())
		if !identity.IsAdmin() {
			respondError(w, http.StatusForbidden, "permission_denied", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func identityFromContext(ctx context.Context) Identity {
	if identity, ok := ctx.Value(identityKey).(Identity); ok {
		return identity
	}
	return Identity{}
}
