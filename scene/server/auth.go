// ABOUTME: Bearer-token authentication that maps API tokens to user identities.
// ABOUTME: With no tokens configured every request acts as the configured local user.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

type userKey struct{}

// WithUser returns a context carrying user.
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the authenticated user, or "" if there is none.
func UserFromContext(ctx context.Context) string {
	user, _ := ctx.Value(userKey{}).(string)
	return user
}

// Authenticator resolves request identities.
type Authenticator struct {
	tokens      map[string]string
	defaultUser string
}

// NewAuthenticator returns an authenticator for the token-to-user map. When
// tokens is empty every request is attributed to defaultUser.
func NewAuthenticator(tokens map[string]string, defaultUser string) *Authenticator {
	return &Authenticator{tokens: tokens, defaultUser: defaultUser}
}

// Identify returns the user for a bearer token header value.
func (a *Authenticator) Identify(header string) (string, bool) {
	if len(a.tokens) == 0 {
		return a.defaultUser, a.defaultUser != ""
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	// Compare against every token so timing does not reveal which matched.
	user := ""
	for candidate, owner := range a.tokens {
		if subtle.ConstantTimeCompare([]byte(token), []byte(candidate)) == 1 {
			user = owner
		}
	}
	return user, user != ""
}

// Attach is middleware that stores the caller's identity, if any, in the
// request context.
func (a *Authenticator) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := a.Identify(r.Header.Get("Authorization")); ok {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser is middleware that rejects requests without an identity with
// a JSON 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
