// Package middleware provides HTTP middleware for authentication.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/career-counselor/internal/identity"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// userKey is the context key for storing the authenticated user.
const userKey ContextKey = "user"

// Auth creates middleware that resolves the bearer token through provider and
// adds the user to the request context. Anything short of a resolved user is
// answered with 401.
func Auth(provider identity.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, "")
				return
			}

			user, err := provider.CurrentUser(r.Context(), token)
			if err != nil || user == nil || user.ID == "" {
				details := ""
				if err != nil && !errors.Is(err, identity.ErrUnauthenticated) {
					// Provider or configuration failure rather than a rejected token.
					details = err.Error()
				}
				unauthorized(w, details)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), *user)))
		})
	}
}

// bearerToken parses an Authorization header with a case-insensitive "Bearer" prefix.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], parts[1] != ""
}

func unauthorized(w http.ResponseWriter, details string) {
	body := map[string]string{"error": "Unauthorized"}
	if details != "" {
		body["details"] = details
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(body)
}

// WithUser returns a context carrying user.
func WithUser(ctx context.Context, user identity.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser extracts the authenticated user from the request context.
func GetUser(r *http.Request) (identity.User, bool) {
	user, ok := r.Context().Value(userKey).(identity.User)
	return user, ok
}
