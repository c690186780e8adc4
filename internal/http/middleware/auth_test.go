package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ayursutra-backend/internal/user"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuth(t *testing.T) {
	issuer := user.NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue(&user.User{ID: "u-1", Username: "asha", Role: user.RolePatient})
	require.NoError(t, err)

	var seen *user.Claims
	h := RequireAuth(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + token, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	require.NotNil(t, seen)
	assert.Equal(t, "u-1", seen.Subject)
}

func TestRequireRole(t *testing.T) {
	issuer := user.NewTokenIssuer("secret", time.Hour)
	h := RequireAuth(issuer)(RequireRole(user.RoleAdmin, user.RoleDoctor)(http.HandlerFunc(okHandler)))

	for role, want := range map[user.Role]int{
		user.RoleAdmin:   http.StatusOK,
		user.RoleDoctor:  http.StatusOK,
		user.RolePatient: http.StatusForbidden,
	} {
		token, err := issuer.Issue(&user.User{ID: "u", Role: role})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, string(role))
	}
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	w := httptest.NewRecorder()

	RequireRole(user.RoleAdmin)(http.HandlerFunc(okHandler)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
