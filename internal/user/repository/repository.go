package repository

import (
	"context"

	"ecoharmony-park/backend/internal/user/domain"
)

// Repository defines persistence for park visitors.
type Repository interface {
	// GetByEmail returns the user with the given email, or nil if not found.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// InsertIfAbsent creates a user for email unless one already exists. Duplicate emails are not an error.
	InsertIfAbsent(ctx context.Context, email, name, passwordHash string) error
}
