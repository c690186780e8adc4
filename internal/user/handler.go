package user

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"ayursutra-backend/internal/http/httpjson"
	"ayursutra-backend/pkg/logging"
)

// Handler serves the account endpoints.
type Handler struct {
	svc    Service
	tokens *TokenIssuer
	logger *logging.Logger
}

// NewHandler creates a new account handler
func NewHandler(svc Service, tokens *TokenIssuer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, tokens: tokens, logger: logger}
}

// RegisterResponse is returned on successful signup.
type RegisterResponse struct {
	Message  string `json:"message"`
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Profile is the public view of an account.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Message string  `json:"message"`
	User    Profile `json:"user"`
	Token   string  `json:"token,omitempty"`
}

// Register handles POST /user/register/
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	actor, err := h.callerRole(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "Invalid token.")
		return
	}

	u, err := h.svc.Register(r.Context(), &req, actor)
	switch {
	case err == nil:
	case errors.Is(err, ErrMissingCredentials):
		httpjson.Error(w, http.StatusBadRequest, "Username and password required")
		return
	case errors.Is(err, ErrUsernameTaken):
		httpjson.Error(w, http.StatusBadRequest, "Username already exists")
		return
	case errors.Is(err, ErrInvalidRole):
		httpjson.Error(w, http.StatusBadRequest, "Invalid role")
		return
	case errors.Is(err, ErrRoleForbidden):
		httpjson.Error(w, http.StatusForbidden, "Only an admin can create doctor or admin accounts.")
		return
	default:
		h.logger.Error("failed to register user", "error", err)
		httpjson.Error(w, http.StatusInternalServerError, "Registration failed.")
		return
	}

	h.logger.Info("user registered", "id", u.ID, "role", u.Role)
	httpjson.Write(w, http.StatusCreated, RegisterResponse{
		Message:  "User registered successfully",
		ID:       u.ID,
		Username: u.Username,
	})
}

// callerRole reads the optional bearer token of a signup request. Anonymous
// callers get "".
func (h *Handler) callerRole(r *http.Request) (Role, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", nil
	}
	raw, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return "", ErrInvalidToken
	}
	claims, err := h.tokens.Parse(raw)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}

// Login handles POST /user/login/
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	u, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpjson.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("login lookup failed", "error", err)
		httpjson.Error(w, http.StatusInternalServerError, "Login failed.")
		return
	}

	token, err := h.tokens.Issue(u)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err, "user_id", u.ID)
		httpjson.Error(w, http.StatusInternalServerError, "Login failed.")
		return
	}

	httpjson.Write(w, http.StatusOK, LoginResponse{
		Message: "Login successful",
		User: Profile{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Phone:    u.Phone,
			Role:     u.Role,
		},
		Token: token,
	})
}

// RegisterRoutes mounts the account endpoints, with and without trailing slash.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/user/register", h.Register)
	r.Post("/user/register/", h.Register)
	r.Post("/user/login", h.Login)
	r.Post("/user/login/", h.Login)
}
