package middleware

import (
	"context"
	"net/http"
	"strings"

	"ayursutra-backend/internal/http/httpjson"
	"ayursutra-backend/internal/user"
)

type contextKey string

const claimsKey contextKey = "userClaims"

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*user.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified claims on the request context.
func RequireAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				httpjson.Error(w, http.StatusUnauthorized, "Authentication required.")
				return
			}
			claims, err := tokens.Parse(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				httpjson.Error(w, http.StatusUnauthorized, "Invalid token.")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole allows the request only when the authenticated role is listed.
// It must run after RequireAuth.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				httpjson.Error(w, http.StatusUnauthorized, "Authentication required.")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpjson.Error(w, http.StatusForbidden, "Insufficient permissions.")
		})
	}
}

// ClaimsFromContext returns the verified token claims if present.
func ClaimsFromContext(ctx context.Context) (*user.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*user.Claims)
	return claims, ok
}
