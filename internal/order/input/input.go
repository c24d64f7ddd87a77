// Package input turns raw submitted form values into an order draft.
package input

import (
	"strconv"
	"strings"
	"time"

	identitydomain "ecoharmony-park/backend/internal/identity/domain"
	"ecoharmony-park/backend/internal/order/domain"
)

const (
	MsgInvalidData = "Datos inválidos. Por favor, revise su selección."
	MsgInvalidAges = "Todas las edades deben ser mayores a 0."
)

// Form is the order form exactly as submitted, before any parsing.
type Form struct {
	Date     string   `json:"date"` // YYYY-MM-DD
	Quantity string   `json:"quantity"`
	Ages     []string `json:"ages"`
	PassType string   `json:"pass_type"`
	Payment  string   `json:"payment"`
}

// Parsed is the outcome of ParseForm. When OK is false Message says what to fix.
type Parsed struct {
	OK      bool
	Message string
}

// ParseForm builds a fresh draft for requester from f. It only rejects values that cannot be
// represented in a draft; business rules such as open days or ticket bounds are left to the
// validator. The returned draft is nil when Parsed.OK is false.
func ParseForm(f Form, requester *identitydomain.Identity) (*domain.Draft, Parsed) {
	visit, err := time.Parse(time.DateOnly, strings.TrimSpace(f.Date))
	if err != nil {
		return nil, Parsed{Message: MsgInvalidData}
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(f.Quantity))
	if err != nil {
		return nil, Parsed{Message: MsgInvalidData}
	}
	ages := make([]int, 0, len(f.Ages))
	for _, raw := range f.Ages {
		age, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || age < 1 {
			return nil, Parsed{Message: MsgInvalidAges}
		}
		ages = append(ages, age)
	}
	return &domain.Draft{
		Requester: requester,
		VisitDate: visit,
		Quantity:  quantity,
		Ages:      ages,
		PassType:  strings.TrimSpace(f.PassType),
		Payment:   domain.PaymentMethod(strings.TrimSpace(f.Payment)),
	}, Parsed{OK: true}
}
