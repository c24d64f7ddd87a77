package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"time"
)

const smtpTimeout = 15 * time.Second

// SMTPTransport sends mail over implicit TLS (SMTPS, usually port 465) with PLAIN auth.
type SMTPTransport struct {
	Host      string
	Port      int
	Username  string
	Password  string
	TLSConfig *tls.Config
}

// NewSMTPTransport returns a transport authenticating as username on host:port.
func NewSMTPTransport(host string, port int, username, password string) *SMTPTransport {
	return &SMTPTransport{
		Host:      host,
		Port:      port,
		Username:  username,
		Password:  password,
		TLSConfig: &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12},
	}
}

// Send dials the server, authenticates and delivers msg.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) (bool, error) {
	addr := net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
	dialer := &tls.Dialer{NetDialer: &net.Dialer{Timeout: smtpTimeout}, Config: t.TLSConfig}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false, fmt.Errorf("smtp: dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(smtpTimeout))
	}
	c, err := smtp.NewClient(conn, t.Host)
	if err != nil {
		conn.Close()
		return false, fmt.Errorf("smtp: handshake: %w", err)
	}
	defer c.Close()
	return t.deliver(c, msg)
}

// deliver authenticates on c and sends msg. The message counts as sent once the server accepts
// the data; a failed QUIT after that is only logged.
func (t *SMTPTransport) deliver(c *smtp.Client, msg Message) (bool, error) {
	if err := c.Auth(smtp.PlainAuth("", t.Username, t.Password, t.Host)); err != nil {
		return false, fmt.Errorf("smtp: auth: %w", err)
	}
	if err := c.Mail(msg.From); err != nil {
		return false, fmt.Errorf("smtp: MAIL FROM: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return false, fmt.Errorf("smtp: RCPT TO: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return false, fmt.Errorf("smtp: DATA: %w", err)
	}
	if _, err := w.Write(formatMessage(msg)); err != nil {
		return false, fmt.Errorf("smtp: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return false, fmt.Errorf("smtp: end data: %w", err)
	}
	if err := c.Quit(); err != nil {
		log.Printf("notify: smtp quit: %v", err)
	}
	return true, nil
}

// formatMessage renders msg as an RFC 5322 text/plain UTF-8 message with CRLF line endings.
func formatMessage(msg Message) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.Write(bytes.ReplaceAll(bytes.ReplaceAll([]byte(msg.Body), []byte("\r\n"), []byte("\n")), []byte("\n"), []byte("\r\n")))
	b.WriteString("\r\n")
	return b.Bytes()
}
