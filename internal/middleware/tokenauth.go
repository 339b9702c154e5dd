// Package middleware provides HTTP middlewares for authentication, rate limiting and logging.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/HumiTrack/internal/auth"
	domainerrors "github.com/atinyakov/HumiTrack/internal/errors"
)

type ctxKey string

const (
	userKey    ctxKey = "user"
	sessionKey ctxKey = "session"
)

// Authenticator resolves a bearer token into its claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// TokenAuth is a middleware that requires a valid bearer access token.
//
// On success the user id and session id carried by the token are stored in the
// request context for the handlers downstream.
func TokenAuth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				status := http.StatusUnauthorized
				var de *domainerrors.Error
				if errors.As(err, &de) {
					status = de.HTTPStatus()
				}
				http.Error(w, err.Error(), status)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, claims.UserID)
			ctx = context.WithValue(ctx, sessionKey, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated user id from the request context.
// Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(userKey).(string); ok {
		return s
	}
	return ""
}

// GetSessionIDFromContext extracts the session id of the access token.
func GetSessionIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(sessionKey).(string); ok {
		return s
	}
	return ""
}

// WithUserID returns a copy of ctx carrying userID. Used by tests and internal callers.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, userID)
}
