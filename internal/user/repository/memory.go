package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ecoharmony-park/backend/internal/user/domain"
)

// MemoryRepository is an in-memory Repository used in tests and when no database is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*domain.User
}

// NewMemoryRepository returns an empty in-memory user repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byEmail: make(map[string]*domain.User)}
}

// GetByEmail returns a copy of the stored user, or nil if not found.
func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	u2 := *u
	return &u2, nil
}

// InsertIfAbsent stores a new user unless the email already exists.
func (r *MemoryRepository) InsertIfAbsent(ctx context.Context, email, name, passwordHash string) error {
	u := &domain.User{
		ID:           uuid.New().String(),
		Email:        strings.TrimSpace(email),
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := u.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return nil
	}
	r.byEmail[u.Email] = u
	return nil
}
