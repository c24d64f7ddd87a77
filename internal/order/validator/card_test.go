package validator

import (
	"errors"
	"testing"
	"time"

	"ecoharmony-park/backend/internal/order/domain"
)

func validCard() domain.Card {
	return domain.Card{
		HolderName:  "Ana Pérez",
		Number:      "4111111111111111",
		ExpiryMonth: "06",
		ExpiryYear:  "2025",
		CVV:         "123",
	}
}

func TestCardValidator_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *domain.Card)
		want   string
	}{
		{"valid", func(c *domain.Card) {}, ""},
		{"short holder", func(c *domain.Card) { c.HolderName = "Al" }, MsgCardHolder},
		{"three rune holder", func(c *domain.Card) { c.HolderName = "Íñé" }, ""},
		{"short number", func(c *domain.Card) { c.Number = "411111111111111" }, MsgCardNumber},
		{"number with letters", func(c *domain.Card) { c.Number = "41111111111111a1" }, MsgCardNumber},
		{"month not numeric", func(c *domain.Card) { c.ExpiryMonth = "jun" }, MsgCardMonthNumber},
		{"month empty", func(c *domain.Card) { c.ExpiryMonth = "" }, MsgCardMonthNumber},
		{"month zero", func(c *domain.Card) { c.ExpiryMonth = "0" }, MsgCardMonthRange},
		{"month 13", func(c *domain.Card) { c.ExpiryMonth = "13" }, MsgCardMonthRange},
		{"month overflow", func(c *domain.Card) { c.ExpiryMonth = "99999999999999999999" }, MsgCardNumeric},
		{"year two digits", func(c *domain.Card) { c.ExpiryYear = "25" }, MsgCardYear},
		{"past year", func(c *domain.Card) { c.ExpiryYear = "2024" }, MsgCardExpired},
		{"past month", func(c *domain.Card) { c.ExpiryMonth = "5" }, MsgCardExpired},
		{"next year", func(c *domain.Card) { c.ExpiryMonth = "1"; c.ExpiryYear = "2026" }, ""},
		{"short cvv", func(c *domain.Card) { c.CVV = "12" }, MsgCardCVV},
		{"cvv letters", func(c *domain.Card) { c.CVV = "12a" }, MsgCardCVV},
	}
	v := NewCardValidator(fixedClock)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCard()
			tt.mutate(&c)
			err := v.Validate(c)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate = %v, want nil", err)
				}
				return
			}
			var fieldErr *domain.CardFieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("Validate = %v, want *CardFieldError", err)
			}
			if fieldErr.Message != tt.want {
				t.Errorf("message = %q, want %q", fieldErr.Message, tt.want)
			}
		})
	}
}

func TestCardValidator_FailFast(t *testing.T) {
	v := NewCardValidator(func() time.Time { return testNow })
	err := v.Validate(domain.Card{})
	if err == nil || err.Error() != MsgCardHolder {
		t.Errorf("Validate(empty) = %v, want only %q", err, MsgCardHolder)
	}
}
