// Package validator checks purchase drafts against the park rules.
//
// Two strategies live here on purpose: Validator accumulates every order violation so all of
// them can be shown at once, while CardValidator stops at the first failing card field.
package validator

import (
	"fmt"
	"time"

	"ecoharmony-park/backend/internal/order/domain"
	"ecoharmony-park/backend/internal/park"
)

// Order validation messages, in check order.
const (
	MsgInvalidUser    = "El usuario no es válido o no está registrado."
	MsgInvalidDate    = "La fecha no es válida o el parque está cerrado."
	MsgMissingAges    = "Debe indicar la edad de cada visitante."
	MsgInvalidPayment = "Debe seleccionar una forma de pago válida."
)

// QuantityMessage is the quantity violation message for the given bounds.
func QuantityMessage(min, max int) string {
	return fmt.Sprintf("Cantidad de entradas inválida (debe ser entre %d y %d).", min, max)
}

// Validator runs every order check against a draft and collects all violations.
type Validator struct {
	rules *park.Rules
	nowF  func() time.Time
}

// New returns a Validator for rules that uses the wall clock to decide what "today" is.
func New(rules *park.Rules) *Validator {
	return NewWithClock(rules, time.Now)
}

// NewWithClock returns a Validator that reads today's date from nowF.
func NewWithClock(rules *park.Rules, nowF func() time.Time) *Validator {
	return &Validator{rules: rules, nowF: nowF}
}

// Validate runs all checks in a fixed order and returns every violation; the result is empty
// iff the draft is valid. d.Errors is replaced with the new list on every call.
func (v *Validator) Validate(d *domain.Draft) []string {
	errs := make([]string, 0, 5)
	if d.Requester == nil || !d.Requester.Registered {
		errs = append(errs, MsgInvalidUser)
	}
	if !v.dateAllowed(d.VisitDate) {
		errs = append(errs, MsgInvalidDate)
	}
	if d.Quantity < v.rules.MinTickets() || d.Quantity > v.rules.MaxTickets() {
		errs = append(errs, QuantityMessage(v.rules.MinTickets(), v.rules.MaxTickets()))
	}
	if len(d.Ages) == 0 || len(d.Ages) != d.Quantity {
		errs = append(errs, MsgMissingAges)
	}
	if !d.Payment.Valid() {
		errs = append(errs, MsgInvalidPayment)
	}
	d.Errors = errs
	return errs
}

// IsValid re-runs Validate and reports whether it found no violations. It is never cached.
func (v *Validator) IsValid(d *domain.Draft) bool {
	return len(v.Validate(d)) == 0
}

// dateAllowed covers both the past-date and the closed-day rule; callers cannot tell which one failed.
func (v *Validator) dateAllowed(visit time.Time) bool {
	day := domain.DateOf(visit)
	today := domain.DateOf(v.nowF())
	return !day.Before(today) && v.rules.IsOpen(day.Weekday())
}
