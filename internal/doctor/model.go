package doctor

import (
	"strings"
	"time"
)

const (
	DefaultAvailableDays = "Mon-Fri"
	DefaultAvailableTime = "10:00 AM - 5:00 PM"
)

// Doctor is one roster entry. Matching reads it as an immutable snapshot.
type Doctor struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Specialty     string    `json:"speciality" db:"speciality"`
	Therapy       string    `json:"therapy" db:"therapy"`
	AvailableDays string    `json:"available_days" db:"available_days"`
	AvailableTime string    `json:"available_time" db:"available_time"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// CreateDoctorRequest is the admin payload for adding a doctor.
type CreateDoctorRequest struct {
	Name          string `json:"name"`
	Specialty     string `json:"speciality"`
	Therapy       string `json:"therapy"`
	AvailableDays string `json:"available_days"`
	AvailableTime string `json:"available_time"`
}

// Validate trims the request, checks required fields and fills availability defaults.
func (r *CreateDoctorRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Specialty = strings.TrimSpace(r.Specialty)
	r.Therapy = strings.TrimSpace(r.Therapy)
	r.AvailableDays = strings.TrimSpace(r.AvailableDays)
	r.AvailableTime = strings.TrimSpace(r.AvailableTime)

	if r.Name == "" {
		return ErrInvalidName
	}
	if r.Specialty == "" {
		return ErrInvalidSpecialty
	}
	if r.Therapy == "" {
		return ErrInvalidTherapy
	}
	if r.AvailableDays == "" {
		r.AvailableDays = DefaultAvailableDays
	}
	if r.AvailableTime == "" {
		r.AvailableTime = DefaultAvailableTime
	}
	return nil
}
