package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation is the postgres SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

// PostgresRepository stores accounts in the relational database.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository initializes a repo backed by database/sql.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	if db == nil {
		panic("user: sql db required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new account.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, username, email, phone, first_name, last_name, role, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.Phone,
		u.FirstName,
		u.LastName,
		string(u.Role),
		u.PasswordHash,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrUsernameTaken
		}
		return fmt.Errorf("user: insert failed: %w", err)
	}
	return nil
}

// GetByUsername looks up an exact username.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getOne(ctx, "username = $1", username)
}

// GetByEmail looks up an email, ignoring case.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	if email == "" {
		return nil, ErrUserNotFound
	}
	return r.getOne(ctx, "lower(email) = lower($1)", email)
}

// GetByPhone looks up an exact phone number.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*User, error) {
	if phone == "" {
		return nil, ErrUserNotFound
	}
	return r.getOne(ctx, "phone = $1", phone)
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg string) (*User, error) {
	query := `
		SELECT id, username, email, phone, first_name, last_name, role, password_hash, created_at
		FROM users
		WHERE ` + where + `
		ORDER BY created_at
		LIMIT 1
	`
	var u User
	var role string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Phone,
		&u.FirstName,
		&u.LastName,
		&role,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user: select failed: %w", err)
	}
	u.Role = Role(role)
	return &u, nil
}
