package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ayursutra-backend/internal/consultation"
	"ayursutra-backend/internal/doctor"
	"ayursutra-backend/internal/http/httpjson"
	httpmiddleware "ayursutra-backend/internal/http/middleware"
	"ayursutra-backend/internal/user"
	"ayursutra-backend/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	UserHandler         *user.Handler
	DoctorHandler       *doctor.Handler
	ConsultationHandler *consultation.Handler
	Tokens              httpmiddleware.TokenParser
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	authed := httpmiddleware.RequireAuth(cfg.Tokens)
	adminOnly := func(next http.Handler) http.Handler {
		return authed(httpmiddleware.RequireRole(user.RoleAdmin)(next))
	}
	staffOnly := func(next http.Handler) http.Handler {
		return authed(httpmiddleware.RequireRole(user.RoleDoctor, user.RoleAdmin)(next))
	}

	r.Route("/api", func(r chi.Router) {
		user.RegisterRoutes(r, cfg.UserHandler)
		doctor.RegisterRoutes(r, cfg.DoctorHandler, adminOnly)
		consultation.RegisterRoutes(r, cfg.ConsultationHandler, staffOnly)
	})

	return r
}
