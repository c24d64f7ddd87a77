package domain

// Identity is the requester of a purchase as seen at session start.
// Registered is a snapshot of the user store at resolution time and is not re-checked later.
type Identity struct {
	Email      string
	Registered bool
}

// Promote marks the identity as registered under email. Only the card checkout does this,
// after it has auto-registered an unknown visitor.
func (i *Identity) Promote(email string) {
	i.Email = email
	i.Registered = true
}
