package doctor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for doctor storage
type Repository interface {
	// List returns the full roster in a stable order (oldest first).
	List(ctx context.Context) ([]Doctor, error)
	Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error)
	GetByID(ctx context.Context, id string) (*Doctor, error)
}

// InMemoryRepository keeps the roster in process memory.
type InMemoryRepository struct {
	mu      sync.RWMutex
	doctors []Doctor
}

// NewInMemoryRepository creates an in-memory repository seeded with doctors.
func NewInMemoryRepository(seed ...Doctor) *InMemoryRepository {
	return &InMemoryRepository{doctors: append([]Doctor(nil), seed...)}
}

// List returns a copy of the roster.
func (r *InMemoryRepository) List(ctx context.Context) ([]Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Doctor(nil), r.doctors...), nil
}

// Create appends a doctor to the roster.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d := Doctor{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Specialty:     req.Specialty,
		Therapy:       req.Therapy,
		AvailableDays: req.AvailableDays,
		AvailableTime: req.AvailableTime,
		CreatedAt:     time.Now().UTC(),
	}

	r.mu.Lock()
	r.doctors = append(r.doctors, d)
	r.mu.Unlock()

	return &d, nil
}

// GetByID retrieves a doctor by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.doctors {
		if r.doctors[i].ID == id {
			d := r.doctors[i]
			return &d, nil
		}
	}
	return nil, ErrDoctorNotFound
}
