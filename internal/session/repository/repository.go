package repository

import (
	"context"
	"errors"

	"ecoharmony-park/backend/internal/session/domain"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session: not found")

// Repository defines storage for purchase sessions. Sessions expire at their ExpiresAt.
type Repository interface {
	// Save creates or replaces s.
	Save(ctx context.Context, s *domain.Session) error
	// Get returns the session with id or ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
