package domain

import (
	"time"

	identitydomain "ecoharmony-park/backend/internal/identity/domain"
)

// Session is a visitor's purchase session. It carries the identity resolved when the session
// started; Registered is not re-checked against the user store afterwards.
type Session struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Registered bool      `json:"registered"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Identity returns a fresh identity value for one order.
func (s *Session) Identity() *identitydomain.Identity {
	return &identitydomain.Identity{Email: s.Email, Registered: s.Registered}
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
