package consultation

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"ayursutra-backend/internal/matching"
)

var (
	// ErrMissingFields is returned when name or problem is absent
	ErrMissingFields = errors.New("name and problem are required")

	// ErrConsultationNotFound is returned when no stored recommendation matches
	ErrConsultationNotFound = errors.New("consultation not found")

	// ErrReportUnavailable is returned when slip rendering is not configured
	ErrReportUnavailable = errors.New("appointment slips are not configured")

	// ErrNotifyUnavailable is returned when no delivery channel is configured
	ErrNotifyUnavailable = errors.New("clinic notification is not configured")
)

// MatchRequest is the validated body of a matching call. Name is only
// checked for presence and never influences the match.
type MatchRequest struct {
	Name    string `json:"name"`
	Problem string `json:"problem"`
	// nil when the body has no priority; an explicit value, even "", is echoed.
	Priority *string `json:"priority"`
}

// Validate checks required fields and applies the default priority.
func (r *MatchRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Problem = strings.TrimSpace(r.Problem)
	if r.Name == "" || r.Problem == "" {
		return ErrMissingFields
	}
	if r.Priority == nil {
		p := matching.DefaultPriority
		r.Priority = &p
	}
	return nil
}

// MatchResponse is the wire shape of a recommendation.
type MatchResponse struct {
	Therapy        string `json:"therapy"`
	DoctorName     string `json:"doctor_name"`
	Specialty      string `json:"speciality"`
	AvailableDays  string `json:"available_days"`
	AvailableTime  string `json:"available_time"`
	Schedule       string `json:"schedule"`
	Priority       string `json:"priority"`
	ConsultationID string `json:"consultation_id,omitempty"`
}

// Consultation is the stored record of one issued recommendation.
type Consultation struct {
	ID          uuid.UUID `json:"id" db:"id"`
	PatientName string    `json:"patient_name" db:"patient_name"`
	Problem     string    `json:"problem" db:"problem"`
	Priority    string    `json:"priority" db:"priority"`

	DoctorID      string `json:"doctor_id,omitempty" db:"doctor_id"`
	DoctorName    string `json:"doctor_name" db:"doctor_name"`
	Specialty     string `json:"speciality" db:"speciality"`
	Therapy       string `json:"therapy" db:"therapy"`
	AvailableDays string `json:"available_days" db:"available_days"`
	AvailableTime string `json:"available_time" db:"available_time"`
	Schedule      string `json:"schedule" db:"schedule"`

	// Which matching pass picked the doctor
	Strategy  matching.Strategy `json:"strategy" db:"strategy"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}

// Response renders c in the matching endpoint's wire shape.
func (c *Consultation) Response() MatchResponse {
	return MatchResponse{
		Therapy:        c.Therapy,
		DoctorName:     c.DoctorName,
		Specialty:      c.Specialty,
		AvailableDays:  c.AvailableDays,
		AvailableTime:  c.AvailableTime,
		Schedule:       c.Schedule,
		Priority:       c.Priority,
		ConsultationID: c.ID.String(),
	}
}

func newConsultation(req MatchRequest, res matching.Result, now time.Time) *Consultation {
	return &Consultation{
		ID:            uuid.New(),
		PatientName:   req.Name,
		Problem:       req.Problem,
		Priority:      res.Priority,
		DoctorID:      res.DoctorID,
		DoctorName:    res.DoctorName,
		Specialty:     res.Specialty,
		Therapy:       res.Therapy,
		AvailableDays: res.AvailableDays,
		AvailableTime: res.AvailableTime,
		Schedule:      res.ScheduledAt,
		Strategy:      res.Strategy,
		CreatedAt:     now,
	}
}
