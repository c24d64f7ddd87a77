package service

import (
	"context"
	"regexp"

	"ecoharmony-park/backend/internal/identity/domain"
	userdomain "ecoharmony-park/backend/internal/user/domain"
)

// emailPattern accepts word, dot and hyphen characters on both sides of the @ and requires a dot
// followed by a non-empty top-level domain. Word characters are Unicode letters, digits and underscore.
var emailPattern = regexp.MustCompile(`^[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+\.[\p{L}\p{N}_]+$`)

// UserLookup is the minimal user repository needed to resolve an identity.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
}

// ValidEmail reports whether s has the basic local-part@domain.tld shape.
func ValidEmail(s string) bool {
	return s != "" && emailPattern.MatchString(s)
}

// Resolve builds the session identity for rawEmail. A malformed email is an ordinary unregistered
// identity and the store is not consulted. A lookup failure yields an unregistered identity along
// with the error so the caller can report it; it is never fatal.
func Resolve(ctx context.Context, rawEmail string, lookup UserLookup) (*domain.Identity, error) {
	id := &domain.Identity{Email: rawEmail}
	if !ValidEmail(rawEmail) {
		return id, nil
	}
	u, err := lookup.GetByEmail(ctx, rawEmail)
	if err != nil {
		return id, err
	}
	id.Registered = u != nil
	return id, nil
}
