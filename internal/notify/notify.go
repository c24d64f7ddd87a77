// Package notify delivers purchase receipts by email over SMTP or Amazon SES, or simulates the
// delivery when no credentials are configured.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"ecoharmony-park/backend/internal/logging"
)

// ErrCredentialsMissing is returned when a receipt must really be sent but no sender credentials exist.
var ErrCredentialsMissing = errors.New("notify: email credentials not configured")

// simulatedSender is the From address used in simulated deliveries.
const simulatedSender = "simulado@local"

// Message is a plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Transport delivers one message. It reports false without error when the provider accepted the
// call but did not confirm delivery.
type Transport interface {
	Send(ctx context.Context, msg Message) (bool, error)
}

// Mailer renders receipts and hands them to a transport.
type Mailer struct {
	sender    string
	transport Transport
	simulate  bool
	template  *ReceiptTemplate
}

// NewMailer returns a Mailer sending from sender through transport. A nil transport or an empty
// sender means credentials are missing: with simulate set, sends are logged and reported as
// delivered; otherwise they fail with ErrCredentialsMissing.
func NewMailer(sender string, transport Transport, simulate bool) *Mailer {
	return &Mailer{
		sender:    strings.TrimSpace(sender),
		transport: transport,
		simulate:  simulate,
		template:  DefaultReceiptTemplate(),
	}
}

// Simulating reports whether sends will be simulated because credentials are missing.
func (m *Mailer) Simulating() bool {
	return !m.configured() && m.simulate
}

func (m *Mailer) configured() bool {
	return m.transport != nil && m.sender != ""
}

// SendReceipt emails summary to recipient. It returns whether a send occurred (or was simulated).
func (m *Mailer) SendReceipt(ctx context.Context, summary, recipient string) (bool, error) {
	body, err := m.template.Render(summary)
	if err != nil {
		return false, err
	}
	if !m.configured() {
		if m.simulate {
			log.Printf("notify: simulated receipt to %s (credentials not configured)", logging.RedactEmail(recipient))
			return true, nil
		}
		return false, ErrCredentialsMissing
	}
	sent, err := m.transport.Send(ctx, Message{
		From:    m.sender,
		To:      recipient,
		Subject: ReceiptSubject,
		Body:    body,
	})
	if err != nil {
		return false, fmt.Errorf("notify: send receipt: %w", err)
	}
	if !sent {
		log.Printf("notify: receipt to %s not confirmed by transport", logging.RedactEmail(recipient))
	}
	return sent, nil
}
