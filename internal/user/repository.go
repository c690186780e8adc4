package user

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for account storage
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
}

// InMemoryRepository stores accounts in process memory.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*User)}
}

// Create stores u, assigning ID and CreatedAt when unset.
func (r *InMemoryRepository) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == u.Username {
			return ErrUsernameTaken
		}
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

// GetByUsername looks up an exact username.
func (r *InMemoryRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.find(func(u *User) bool { return u.Username == username })
}

// GetByEmail looks up an email, ignoring case.
func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	if email == "" {
		return nil, ErrUserNotFound
	}
	return r.find(func(u *User) bool { return strings.EqualFold(u.Email, email) })
}

// GetByPhone looks up an exact phone number.
func (r *InMemoryRepository) GetByPhone(ctx context.Context, phone string) (*User, error) {
	if phone == "" {
		return nil, ErrUserNotFound
	}
	return r.find(func(u *User) bool { return u.Phone == phone })
}

func (r *InMemoryRepository) find(match func(*User) bool) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}
