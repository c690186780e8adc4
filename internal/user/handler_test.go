package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ayursutra-backend/pkg/logging"
)

func newTestRouter(svc Service, tokens *TokenIssuer) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(svc, tokens, logging.Discard()))
	return r
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload)))
	return w
}

func postJSONAs(t *testing.T, h http.Handler, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRegisterHandler(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), bcrypt.MinCost, logging.Discard())
	router := newTestRouter(svc, nil)

	w := postJSON(t, router, "/user/register/", map[string]string{"username": "asha", "password": "pw"})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp RegisterResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.Equal(t, "asha", resp.Username)
	assert.NotEmpty(t, resp.ID)

	w = postJSON(t, router, "/user/register", map[string]string{"username": "asha", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Username already exists"}`, w.Body.String())

	w = postJSON(t, router, "/user/register/", map[string]string{"username": "ravi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Username and password required"}`, w.Body.String())

	w = postJSON(t, router, "/user/register/", map[string]string{"username": "ravi", "password": "pw", "role": "nurse"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid role"}`, w.Body.String())
}

func TestRegisterHandler_AnonymousCannotClaimStaffRoles(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, bcrypt.MinCost, logging.Discard())
	tokens := NewTokenIssuer("secret", time.Hour)
	router := newTestRouter(svc, tokens)

	for _, role := range []string{"admin", "doctor"} {
		w := postJSON(t, router, "/user/register/", map[string]string{"username": "mallory", "password": "pw", "role": role})
		assert.Equal(t, http.StatusForbidden, w.Code, role)
	}
	_, err := repo.GetByUsername(context.Background(), "mallory")
	assert.ErrorIs(t, err, ErrUserNotFound)

	patient, err := svc.Register(context.Background(), &RegisterRequest{Username: "asha", Password: "pw"}, "")
	require.NoError(t, err)
	patientToken, err := tokens.Issue(patient)
	require.NoError(t, err)
	w := postJSONAs(t, router, "/user/register/", patientToken, map[string]string{"username": "mallory", "password": "pw", "role": "admin"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = postJSONAs(t, router, "/user/register/", "forged", map[string]string{"username": "mallory", "password": "pw"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterHandler_AdminCreatesDoctor(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), bcrypt.MinCost, logging.Discard())
	tokens := NewTokenIssuer("secret", time.Hour)
	router := newTestRouter(svc, tokens)

	admin, _, err := svc.EnsureAdmin(context.Background(), "root", "pw")
	require.NoError(t, err)
	adminToken, err := tokens.Issue(admin)
	require.NoError(t, err)

	w := postJSONAs(t, router, "/user/register/", adminToken, map[string]string{"username": "dr.rao", "password": "pw", "role": "doctor"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/user/login/", LoginRequest{Username: "dr.rao", Password: "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, RoleDoctor, resp.User.Role)
}

func TestRegisterHandler_InvalidJSON(t *testing.T) {
	router := newTestRouter(NewService(NewInMemoryRepository(), bcrypt.MinCost, nil), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/user/register/", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHandler(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), bcrypt.MinCost, logging.Discard())
	tokens := NewTokenIssuer("secret", time.Hour)
	router := newTestRouter(svc, tokens)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "asha", Email: "asha@example.com", Phone: "555", Password: "pw",
	}, "")
	require.NoError(t, err)

	w := postJSON(t, router, "/user/login/", LoginRequest{Username: "asha@example.com", Password: "pw"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, "asha", resp.User.Username)
	assert.Equal(t, "555", resp.User.Phone)
	assert.Equal(t, RolePatient, resp.User.Role)

	claims, err := tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.Subject)

	w = postJSON(t, router, "/user/login", LoginRequest{Username: "asha", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())
}

func TestLoginHandler_WithoutSecretOmitsToken(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), bcrypt.MinCost, logging.Discard())
	_, err := svc.Register(context.Background(), &RegisterRequest{Username: "asha", Password: "pw"}, "")
	require.NoError(t, err)

	w := postJSON(t, newTestRouter(svc, NewTokenIssuer("", 0)), "/user/login/", LoginRequest{Username: "asha", Password: "pw"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"token"`)
}

type brokenService struct{}

func (brokenService) Register(context.Context, *RegisterRequest, Role) (*User, error) {
	return nil, errors.New("db down")
}

func (brokenService) EnsureAdmin(context.Context, string, string) (*User, bool, error) {
	return nil, false, errors.New("db down")
}

func (brokenService) Authenticate(context.Context, string, string) (*User, error) {
	return nil, errors.New("db down")
}

func TestHandlers_ServiceFailure(t *testing.T) {
	router := newTestRouter(brokenService{}, nil)

	w := postJSON(t, router, "/user/register/", map[string]string{"username": "a", "password": "b"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = postJSON(t, router, "/user/login/", LoginRequest{Username: "a", Password: "b"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
