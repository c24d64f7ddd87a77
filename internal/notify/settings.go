package notify

import (
	"context"
	"fmt"
	"strings"
)

// Transport names accepted in Settings.Transport.
const (
	TransportSMTP = "smtp"
	TransportSES  = "ses"
)

// Settings selects and configures the receipt transport.
type Settings struct {
	Transport string
	Sender    string
	Password  string // SMTP only
	SMTPHost  string
	SMTPPort  int
	Simulate  bool

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// New builds a Mailer from s. SMTP needs both sender and password; SES needs a sender and takes
// AWS credentials from s or the default chain. Without them the Mailer has no transport.
func New(ctx context.Context, s Settings) (*Mailer, error) {
	var transport Transport
	switch strings.ToLower(s.Transport) {
	case "", TransportSMTP:
		if s.Sender != "" && s.Password != "" {
			transport = NewSMTPTransport(s.SMTPHost, s.SMTPPort, s.Sender, s.Password)
		}
	case TransportSES:
		if s.Sender != "" {
			t, err := NewSESTransport(ctx, s.AWSRegion, s.AWSAccessKeyID, s.AWSSecretAccessKey)
			if err != nil {
				return nil, err
			}
			transport = t
		}
	default:
		return nil, fmt.Errorf("notify: unknown transport %q", s.Transport)
	}
	return NewMailer(s.Sender, transport, s.Simulate), nil
}
