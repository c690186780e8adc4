package consultation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository stores issued recommendations.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	Save(ctx context.Context, c *Consultation) error
}

type postgresRepo struct {
	db *sql.DB
}

// NewRepository returns a Repository backed by postgres.
func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	query := `
		SELECT id, patient_name, problem, priority, doctor_id, doctor_name, speciality, therapy,
			available_days, available_time, schedule, strategy, created_at
		FROM consultations
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var c Consultation
	var doctorID sql.NullString
	err := row.Scan(
		&c.ID,
		&c.PatientName,
		&c.Problem,
		&c.Priority,
		&doctorID,
		&c.DoctorName,
		&c.Specialty,
		&c.Therapy,
		&c.AvailableDays,
		&c.AvailableTime,
		&c.Schedule,
		&c.Strategy,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConsultationNotFound
		}
		return nil, fmt.Errorf("consultation: select failed: %w", err)
	}
	c.DoctorID = doctorID.String

	return &c, nil
}

func (r *postgresRepo) Save(ctx context.Context, c *Consultation) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	var doctorID sql.NullString
	if _, err := uuid.Parse(c.DoctorID); err == nil {
		doctorID = sql.NullString{String: c.DoctorID, Valid: true}
	}

	query := `
		INSERT INTO consultations (id, patient_name, problem, priority, doctor_id, doctor_name, speciality,
			therapy, available_days, available_time, schedule, strategy, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.PatientName, c.Problem, c.Priority, doctorID, c.DoctorName, c.Specialty,
		c.Therapy, c.AvailableDays, c.AvailableTime, c.Schedule, string(c.Strategy), c.CreatedAt)
	if err != nil {
		return fmt.Errorf("consultation: insert failed: %w", err)
	}
	return nil
}

// InMemoryRepository keeps recommendations in process memory.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]Consultation
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[uuid.UUID]Consultation)}
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return nil, ErrConsultationNotFound
	}
	return &c, nil
}

func (r *InMemoryRepository) Save(ctx context.Context, c *Consultation) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	r.items[c.ID] = *c
	r.mu.Unlock()
	return nil
}
