package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeTransport struct {
	sent   []Message
	result bool
	err    error
}

func (f *fakeTransport) Send(_ context.Context, msg Message) (bool, error) {
	f.sent = append(f.sent, msg)
	return f.result, f.err
}

func TestMailer_SendReceipt(t *testing.T) {
	tr := &fakeTransport{result: true}
	m := NewMailer("parque@example.com", tr, false)

	sent, err := m.SendReceipt(context.Background(), "Compra confirmada para ana@example.com", "ana@example.com")
	if err != nil {
		t.Fatalf("SendReceipt: %v", err)
	}
	if !sent {
		t.Error("sent = false, want true")
	}
	if len(tr.sent) != 1 {
		t.Fatalf("transport got %d messages, want 1", len(tr.sent))
	}
	msg := tr.sent[0]
	if msg.From != "parque@example.com" || msg.To != "ana@example.com" {
		t.Errorf("From/To = %q/%q", msg.From, msg.To)
	}
	if msg.Subject != ReceiptSubject {
		t.Errorf("Subject = %q, want %q", msg.Subject, ReceiptSubject)
	}
	want := "¡Gracias por tu compra!\n\nAquí está el resumen:\n\nCompra confirmada para ana@example.com"
	if msg.Body != want {
		t.Errorf("Body = %q, want %q", msg.Body, want)
	}
}

func TestMailer_TransportNotConfirmed(t *testing.T) {
	m := NewMailer("parque@example.com", &fakeTransport{result: false}, false)
	sent, err := m.SendReceipt(context.Background(), "x", "ana@example.com")
	if err != nil || sent {
		t.Errorf("SendReceipt = %v, %v; want false, nil", sent, err)
	}
}

func TestMailer_TransportError(t *testing.T) {
	boom := errors.New("connection refused")
	m := NewMailer("parque@example.com", &fakeTransport{err: boom}, true)
	sent, err := m.SendReceipt(context.Background(), "x", "ana@example.com")
	if sent || !errors.Is(err, boom) {
		t.Errorf("SendReceipt = %v, %v; want false, %v", sent, err, boom)
	}
}

func TestMailer_MissingCredentials(t *testing.T) {
	tests := []struct {
		name      string
		sender    string
		transport Transport
	}{
		{"no transport", "parque@example.com", nil},
		{"no sender", "", &fakeTransport{result: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name+" simulated", func(t *testing.T) {
			m := NewMailer(tt.sender, tt.transport, true)
			if !m.Simulating() {
				t.Error("Simulating() = false, want true")
			}
			sent, err := m.SendReceipt(context.Background(), "x", "ana@example.com")
			if err != nil || !sent {
				t.Errorf("SendReceipt = %v, %v; want true, nil", sent, err)
			}
			if ft, ok := tt.transport.(*fakeTransport); ok && len(ft.sent) != 0 {
				t.Errorf("transport got %d messages while simulating, want 0", len(ft.sent))
			}
		})
		t.Run(tt.name+" strict", func(t *testing.T) {
			m := NewMailer(tt.sender, tt.transport, false)
			if m.Simulating() {
				t.Error("Simulating() = true, want false")
			}
			sent, err := m.SendReceipt(context.Background(), "x", "ana@example.com")
			if sent || !errors.Is(err, ErrCredentialsMissing) {
				t.Errorf("SendReceipt = %v, %v; want false, ErrCredentialsMissing", sent, err)
			}
		})
	}
}

func TestReceiptTemplate(t *testing.T) {
	tpl, err := ParseReceiptTemplate("Hola: {{ summary }}")
	if err != nil {
		t.Fatalf("ParseReceiptTemplate: %v", err)
	}
	out, err := tpl.Render("2 entradas por $20000.")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "Hola: 2 entradas por $20000." {
		t.Errorf("Render = %q", out)
	}

	if _, err := ParseReceiptTemplate("{% if summary %}sin cierre"); err == nil {
		t.Error("unclosed tag parsed without error")
	}
}

func TestFormatMessage(t *testing.T) {
	raw := string(formatMessage(Message{
		From:    "parque@example.com",
		To:      "ana@example.com",
		Subject: ReceiptSubject,
		Body:    "línea 1\nlínea 2",
	}))
	for _, want := range []string{
		"From: parque@example.com\r\n",
		"To: ana@example.com\r\n",
		"Subject: =?utf-8?q?",
		"Content-Type: text/plain; charset=utf-8\r\n",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q:\n%s", want, raw)
		}
	}
	if !strings.HasSuffix(raw, "\r\n\r\nlínea 1\r\nlínea 2\r\n") {
		t.Errorf("body not CRLF terminated: %q", raw)
	}
}

func TestNew_SelectsTransport(t *testing.T) {
	ctx := context.Background()

	m, err := New(ctx, Settings{Transport: "smtp", Sender: "parque@example.com", Password: "secret", SMTPHost: "smtp.example.com", SMTPPort: 465})
	if err != nil {
		t.Fatalf("New smtp: %v", err)
	}
	smtpTr, ok := m.transport.(*SMTPTransport)
	if !ok {
		t.Fatalf("transport = %T, want *SMTPTransport", m.transport)
	}
	if smtpTr.Port != 465 {
		t.Errorf("Port = %d, want 465", smtpTr.Port)
	}

	m, err = New(ctx, Settings{Transport: "smtp", Sender: "parque@example.com", Simulate: true})
	if err != nil {
		t.Fatalf("New simulated: %v", err)
	}
	if m.transport != nil || !m.Simulating() {
		t.Errorf("simulated mailer: transport = %v, Simulating = %v", m.transport, m.Simulating())
	}

	m, err = New(ctx, Settings{Transport: "ses", Sender: "parque@example.com", AWSRegion: "sa-east-1", AWSAccessKeyID: "AKID", AWSSecretAccessKey: "secret"})
	if err != nil {
		t.Fatalf("New ses: %v", err)
	}
	if _, ok := m.transport.(*SESTransport); !ok {
		t.Errorf("transport = %T, want *SESTransport", m.transport)
	}

	if _, err := New(ctx, Settings{Transport: "pigeon"}); err == nil {
		t.Error("unknown transport accepted")
	}
}
