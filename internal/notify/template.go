package notify

import (
	"fmt"

	"github.com/osteele/liquid"
)

// ReceiptSubject is the subject line of every receipt.
const ReceiptSubject = "Confirmación de Compra - EcoHarmony Park"

const receiptBody = "¡Gracias por tu compra!\n\nAquí está el resumen:\n\n{{ summary }}"

// ReceiptTemplate renders the receipt body around an order summary.
type ReceiptTemplate struct {
	tpl *liquid.Template
}

// DefaultReceiptTemplate returns the standard receipt body template.
func DefaultReceiptTemplate() *ReceiptTemplate {
	t, err := ParseReceiptTemplate(receiptBody)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseReceiptTemplate compiles a Liquid template. The summary is available as {{ summary }}.
func ParseReceiptTemplate(src string) (*ReceiptTemplate, error) {
	tpl, err := liquid.NewEngine().ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("notify: parse receipt template: %w", err)
	}
	return &ReceiptTemplate{tpl: tpl}, nil
}

// Render returns the body for summary.
func (t *ReceiptTemplate) Render(summary string) (string, error) {
	out, err := t.tpl.RenderString(map[string]any{"summary": summary})
	if err != nil {
		return "", fmt.Errorf("notify: render receipt: %w", err)
	}
	return out, nil
}
