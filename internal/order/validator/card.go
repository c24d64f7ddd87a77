package validator

import (
	"strconv"
	"time"
	"unicode/utf8"

	"ecoharmony-park/backend/internal/order/domain"
)

// Card field messages, in check order.
const (
	MsgCardHolder      = "Por favor, ingrese su nombre y apellido."
	MsgCardNumber      = "El número de tarjeta debe tener 16 dígitos numéricos."
	MsgCardMonthNumber = "El mes debe ser un número."
	MsgCardMonthRange  = "El mes de vencimiento debe estar entre 1 y 12."
	MsgCardYear        = "El año debe tener 4 dígitos (ej: 2025)."
	MsgCardExpired     = "La tarjeta de crédito está vencida."
	MsgCardCVV         = "El CVV debe tener 3 dígitos numéricos."
	MsgCardNumeric     = "Por favor, revise que los campos numéricos sean correctos."
)

// CardValidator checks card fields and stops at the first failure.
type CardValidator struct {
	nowF func() time.Time
}

// NewCardValidator returns a CardValidator that judges expiry against nowF.
func NewCardValidator(nowF func() time.Time) *CardValidator {
	if nowF == nil {
		nowF = time.Now
	}
	return &CardValidator{nowF: nowF}
}

// Validate returns nil when every card field is acceptable, or a *domain.CardFieldError
// describing the first field that is not.
func (v *CardValidator) Validate(c domain.Card) error {
	if utf8.RuneCountInString(c.HolderName) < 3 {
		return fail(MsgCardHolder)
	}
	if !digits(c.Number, 16) {
		return fail(MsgCardNumber)
	}
	if !digits(c.ExpiryMonth, 0) {
		return fail(MsgCardMonthNumber)
	}
	month, err := strconv.Atoi(c.ExpiryMonth)
	if err != nil {
		return fail(MsgCardNumeric)
	}
	if month < 1 || month > 12 {
		return fail(MsgCardMonthRange)
	}
	if !digits(c.ExpiryYear, 4) {
		return fail(MsgCardYear)
	}
	year, err := strconv.Atoi(c.ExpiryYear)
	if err != nil {
		return fail(MsgCardNumeric)
	}
	now := v.nowF()
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return fail(MsgCardExpired)
	}
	if !digits(c.CVV, 3) {
		return fail(MsgCardCVV)
	}
	return nil
}

func fail(msg string) error {
	return &domain.CardFieldError{Message: msg}
}

// digits reports whether s is non-empty, made of ASCII digits only and, when n > 0, exactly n long.
func digits(s string, n int) bool {
	if s == "" || (n > 0 && len(s) != n) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
