package doctor

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ayursutra-backend/internal/http/httpjson"
	"ayursutra-backend/pkg/logging"
)

// Handler handles HTTP requests for the doctor roster
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new doctors handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// ListDoctorsResponse is the response for listing doctors
type ListDoctorsResponse struct {
	Doctors []Doctor `json:"doctors"`
	Count   int      `json:"count"`
}

// ListDoctors handles GET /doctors
func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		httpjson.Error(w, http.StatusInternalServerError, "Failed to load doctors.")
		return
	}
	if doctors == nil {
		doctors = []Doctor{}
	}

	httpjson.Write(w, http.StatusOK, ListDoctorsResponse{Doctors: doctors, Count: len(doctors)})
}

// GetDoctor handles GET /doctors/{id}
func (h *Handler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			httpjson.Error(w, http.StatusNotFound, "Doctor not found.")
			return
		}
		h.logger.Error("failed to get doctor", "error", err, "doctor_id", id)
		httpjson.Error(w, http.StatusInternalServerError, "Failed to load doctor.")
		return
	}

	httpjson.Write(w, http.StatusOK, d)
}

// CreateDoctor handles POST /doctors
func (h *Handler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req CreateDoctorRequest
	if err := httpjson.Decode(r, &req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	d, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if IsValidationError(err) {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create doctor", "error", err)
		httpjson.Error(w, http.StatusInternalServerError, "Failed to create doctor.")
		return
	}

	h.logger.Info("doctor created", "id", d.ID, "name", d.Name, "speciality", d.Specialty)
	httpjson.Write(w, http.StatusCreated, d)
}

// RegisterRoutes mounts the roster endpoints. Writes go through adminOnly.
func RegisterRoutes(r chi.Router, h *Handler, adminOnly func(http.Handler) http.Handler) {
	r.Get("/doctors", h.ListDoctors)
	r.Get("/doctors/{id}", h.GetDoctor)
	r.With(adminOnly).Post("/doctors", h.CreateDoctor)
}
