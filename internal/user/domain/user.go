package domain

import (
	"errors"
	"strings"
	"time"
)

// AutoRegisteredName is the display name given to visitors registered during a card checkout.
const AutoRegisteredName = "RegistroAutomático"

// User is a park visitor account. Email is unique across users.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // empty for auto-registered visitors
	CreatedAt    time.Time
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("email is required")
	}
	if u.ID == "" {
		return errors.New("id is required")
	}
	return nil
}
