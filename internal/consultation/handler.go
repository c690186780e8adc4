package consultation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ayursutra-backend/internal/http/httpjson"
	"ayursutra-backend/internal/matching"
	"ayursutra-backend/pkg/logging"
)

type Handler struct {
	svc    Service
	logger *logging.Logger
}

func NewHandler(svc Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Recommend handles POST /agentic-ai/
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	c, err := h.svc.Recommend(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, ErrMissingFields):
		httpjson.Error(w, http.StatusBadRequest, "Name and problem are required.")
		return
	case errors.Is(err, matching.ErrNoDoctors):
		httpjson.Error(w, http.StatusNotFound, "No doctors available.")
		return
	default:
		h.logger.Error("doctor matching failed", "error", err)
		httpjson.Error(w, http.StatusInternalServerError, "Failed to load doctors.")
		return
	}

	resp := c.Response()
	if c.ID == uuid.Nil {
		resp.ConsultationID = ""
	}
	httpjson.Write(w, http.StatusOK, resp)
}

// GetConsultation handles GET /consultations/{id}
func (h *Handler) GetConsultation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.consultationID(w, r)
	if !ok {
		return
	}

	c, err := h.svc.GetConsultation(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err, id)
		return
	}
	httpjson.Write(w, http.StatusOK, c)
}

// DownloadReport handles GET /consultations/{id}/report
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.consultationID(w, r)
	if !ok {
		return
	}

	pdf, err := h.svc.RenderReport(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err, id)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="appointment_%s.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// NotifyClinic handles POST /consultations/{id}/notify
func (h *Handler) NotifyClinic(w http.ResponseWriter, r *http.Request) {
	id, ok := h.consultationID(w, r)
	if !ok {
		return
	}

	if err := h.svc.NotifyClinic(r.Context(), id); err != nil {
		h.writeLookupError(w, err, id)
		return
	}
	httpjson.Write(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (h *Handler) consultationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid consultation ID.")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeLookupError(w http.ResponseWriter, err error, id uuid.UUID) {
	switch {
	case errors.Is(err, ErrConsultationNotFound):
		httpjson.Error(w, http.StatusNotFound, "Consultation not found.")
	case errors.Is(err, ErrReportUnavailable), errors.Is(err, ErrNotifyUnavailable):
		httpjson.Error(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("consultation request failed", "error", err, "consultation_id", id)
		httpjson.Error(w, http.StatusInternalServerError, "Internal error.")
	}
}

// RegisterRoutes mounts the matching endpoint publicly. Stored consultations
// carry patient details and are only served behind staffOnly.
func RegisterRoutes(r chi.Router, h *Handler, staffOnly func(http.Handler) http.Handler) {
	r.Post("/agentic-ai", h.Recommend)
	r.Post("/agentic-ai/", h.Recommend)

	r.Group(func(r chi.Router) {
		r.Use(staffOnly)
		r.Get("/consultations/{id}", h.GetConsultation)
		r.Get("/consultations/{id}/report", h.DownloadReport)
		r.Post("/consultations/{id}/notify", h.NotifyClinic)
	})
}
