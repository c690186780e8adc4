package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"ayursutra-backend/pkg/logging"
)

// Service handles account registration and credential checks.
type Service interface {
	// Register creates an account on behalf of a caller holding actor ("" when
	// anonymous). Only admins may create doctor or admin accounts.
	Register(ctx context.Context, req *RegisterRequest, actor Role) (*User, error)
	Authenticate(ctx context.Context, identifier, password string) (*User, error)
	// EnsureAdmin creates the admin account username if it does not exist.
	EnsureAdmin(ctx context.Context, username, password string) (*User, bool, error)
}

type service struct {
	repo   Repository
	cost   int
	logger *logging.Logger
}

// NewService creates a Service hashing passwords with bcrypt at cost.
// A cost of 0 selects bcrypt.DefaultCost.
func NewService(repo Repository, cost int, logger *logging.Logger) Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &service{repo: repo, cost: cost, logger: logger}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest, actor Role) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Role != RolePatient && actor != RoleAdmin {
		return nil, ErrRoleForbidden
	}
	return s.create(ctx, req)
}

func (s *service) EnsureAdmin(ctx context.Context, username, password string) (*User, bool, error) {
	req := &RegisterRequest{Username: username, Password: password, Role: RoleAdmin}
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	existing, err := s.repo.GetByUsername(ctx, req.Username)
	switch {
	case err == nil && existing.Role == RoleAdmin:
		return existing, false, nil
	case err == nil:
		return nil, false, fmt.Errorf("user: ensure admin %q: %w", req.Username, ErrUsernameTaken)
	case !errors.Is(err, ErrUserNotFound):
		return nil, false, err
	}

	u, err := s.create(ctx, req)
	if err != nil {
		return nil, false, err
	}
	s.logger.Info("admin account created", "id", u.ID, "username", u.Username)
	return u, true, nil
}

func (s *service) create(ctx context.Context, req *RegisterRequest) (*User, error) {
	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("user: hash password: %w", err)
	}

	u := &User{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate resolves identifier as an email, then a phone number, then a
// username, and checks password against the stored hash.
func (s *service) Authenticate(ctx context.Context, identifier, password string) (*User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	lookups := []func(context.Context, string) (*User, error){
		s.repo.GetByEmail,
		s.repo.GetByPhone,
		s.repo.GetByUsername,
	}
	for _, lookup := range lookups {
		u, err := lookup(ctx, identifier)
		if errors.Is(err, ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		return u, nil
	}
	return nil, ErrInvalidCredentials
}
