// Package domain defines the purchase order draft, its processing result and payment details.
package domain

import (
	"time"

	identitydomain "ecoharmony-park/backend/internal/identity/domain"
)

// PaymentMethod is how the visitor pays for the order.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "efectivo"
	PaymentCard PaymentMethod = "tarjeta"
)

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

// Draft is one purchase attempt. It is built fresh from the submitted inputs and owned by the
// processor for its lifetime. Errors is rewritten on every validation run.
type Draft struct {
	Requester *identitydomain.Identity
	VisitDate time.Time // civil date; the time of day is ignored
	Quantity  int
	Ages      []int
	PassType  string
	Payment   PaymentMethod
	Errors    []string
}

// VisitDay returns the visit date formatted as YYYY-MM-DD.
func (d *Draft) VisitDay() string {
	return d.VisitDate.Format(time.DateOnly)
}

// Result is the terminal outcome of one processing attempt.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Card holds the raw card fields collected by the card checkout.
type Card struct {
	HolderName  string
	Number      string
	ExpiryMonth string
	ExpiryYear  string
	CVV         string
}

// CardFieldError reports the first card field that failed validation.
type CardFieldError struct {
	Message string
}

func (e *CardFieldError) Error() string {
	return e.Message
}

// Date returns the civil date y-m-d as a time.Time at midnight UTC.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its civil date in t's location, expressed at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}
