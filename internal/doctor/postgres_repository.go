package doctor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostgresRepository stores doctors in the relational database.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository initializes a repo backed by database/sql.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	if db == nil {
		panic("doctor: sql db required")
	}
	return &PostgresRepository{db: db}
}

// List reads the whole roster ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Doctor, error) {
	query := `
		SELECT id, name, speciality, therapy, available_days, available_time, created_at
		FROM doctors
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("doctor: list failed: %w", err)
	}
	defer rows.Close()

	var doctors []Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.Specialty,
			&d.Therapy,
			&d.AvailableDays,
			&d.AvailableTime,
			&d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("doctor: scan failed: %w", err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("doctor: list failed: %w", err)
	}
	return doctors, nil
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO doctors (id, name, speciality, therapy, available_days, available_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRowContext(ctx, query,
		id,
		req.Name,
		req.Specialty,
		req.Therapy,
		req.AvailableDays,
		req.AvailableTime,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("doctor: insert failed: %w", err)
	}

	return &Doctor{
		ID:            id.String(),
		Name:          req.Name,
		Specialty:     req.Specialty,
		Therapy:       req.Therapy,
		AvailableDays: req.AvailableDays,
		AvailableTime: req.AvailableTime,
		CreatedAt:     createdAt,
	}, nil
}

// GetByID fetches a single doctor.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrDoctorNotFound
	}

	query := `
		SELECT id, name, speciality, therapy, available_days, available_time, created_at
		FROM doctors
		WHERE id = $1
	`
	var d Doctor
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID,
		&d.Name,
		&d.Specialty,
		&d.Therapy,
		&d.AvailableDays,
		&d.AvailableTime,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("doctor: select failed: %w", err)
	}
	return &d, nil
}
