// Package service starts and resumes purchase sessions.
package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	identitydomain "ecoharmony-park/backend/internal/identity/domain"
	identityservice "ecoharmony-park/backend/internal/identity/service"
	"ecoharmony-park/backend/internal/logging"
	"ecoharmony-park/backend/internal/session/domain"
	"ecoharmony-park/backend/internal/session/repository"
)

// ErrSessionNotFound is returned when a session ID is unknown or expired.
var ErrSessionNotFound = repository.ErrNotFound

// Service resolves the visitor identity once per session and keeps it in a session store.
type Service struct {
	store repository.Repository
	users identityservice.UserLookup
	ttl   time.Duration
	nowF  func() time.Time
}

// NewService returns a session service. ttl <= 0 means sessions never expire.
func NewService(store repository.Repository, users identityservice.UserLookup, ttl time.Duration) *Service {
	return &Service{store: store, users: users, ttl: ttl, nowF: time.Now}
}

// Start resolves email against the user store and opens a session for it. A failed lookup is
// logged and the session starts as unregistered.
func (s *Service) Start(ctx context.Context, email string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	id, err := identityservice.Resolve(ctx, email, s.users)
	if err != nil {
		log.Printf("session: resolve %s: %v", logging.RedactEmail(email), err)
	}
	now := s.nowF().UTC()
	sess := &domain.Session{
		ID:         uuid.New().String(),
		Email:      id.Email,
		Registered: id.Registered,
		CreatedAt:  now,
	}
	if s.ttl > 0 {
		sess.ExpiresAt = now.Add(s.ttl)
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns the session with id or ErrSessionNotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrSessionNotFound
	}
	return s.store.Get(ctx, id)
}

// Sync stores identity changes made during an order (e.g. a card checkout promotion) back into sess.
// It is a no-op when the identity did not change.
func (s *Service) Sync(ctx context.Context, sess *domain.Session, id *identitydomain.Identity) error {
	if id == nil || (id.Email == sess.Email && id.Registered == sess.Registered) {
		return nil
	}
	sess.Email = id.Email
	sess.Registered = id.Registered
	return s.store.Save(ctx, sess)
}
