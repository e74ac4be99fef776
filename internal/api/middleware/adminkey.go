// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/response"
)

type contextKey string

// ActorIDKey is the request context key holding the authenticated admin's
// actor ID for audit logging.
const ActorIDKey contextKey = "actorID"

// AdminKeyMiddleware guards admin lifecycle endpoints. Requests must carry the
// shared admin key in X-Admin-Key and identify the acting admin in X-Actor-ID;
// the actor ID is stored on the request context for audit logging.
//
// The key is read from ADMIN_API_KEY per request so tests can swap it.
func AdminKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		adminKey := os.Getenv("ADMIN_API_KEY")
		if adminKey == "" {
			response.RespondError(w, http.StatusInternalServerError, "authentication error", "Authentication not loaded")
			return
		}

		providedKey := r.Header.Get("X-Admin-Key")
		if providedKey == "" {
			response.RespondError(w, http.StatusUnauthorized, "authentication failed", "Missing admin key")
			return
		}
		if subtle.ConstantTimeCompare([]byte(providedKey), []byte(adminKey)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "authentication failed", "Invalid admin key")
			return
		}

		actorID := r.Header.Get("X-Actor-ID")
		if actorID == "" {
			response.RespondError(w, http.StatusUnauthorized, "authentication failed", "Missing actor ID")
			return
		}

		ctx := context.WithValue(r.Context(), ActorIDKey, actorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorID returns the authenticated admin's actor ID from the request context,
// or an empty string outside an admin-gated route.
func ActorID(r *http.Request) string {
	actorID, _ := r.Context().Value(ActorIDKey).(string)
	return actorID
}
