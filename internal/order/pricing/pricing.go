// Package pricing computes order totals from the park price table.
package pricing

import (
	"ecoharmony-park/backend/internal/order/domain"
	"ecoharmony-park/backend/internal/park"
)

// TotalPrice is quantity times the unit price of the draft's pass type.
// Unknown pass types are priced with park.UnknownPassTypePrice.
func TotalPrice(d *domain.Draft, rules *park.Rules) int {
	return Quote(d.Quantity, d.PassType, rules)
}

// Quote prices quantity tickets of passType without building a draft.
func Quote(quantity int, passType string, rules *park.Rules) int {
	return quantity * rules.UnitPrice(passType)
}
