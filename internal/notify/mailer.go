// Package notify delivers operational emails. Delivery is best effort;
// callers log failures and carry on.
package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// Mailer sends a plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NoopMailer drops everything. Used when email is not configured.
type NoopMailer struct{}

// Send implements Mailer.
func (NoopMailer) Send(ctx context.Context, to, subject, body string) error {
	return nil
}

// SMTPConfig configures the SMTP mailer.
type SMTPConfig struct {
	Host string
	Port int
	From string
}

// SMTPMailer delivers through a plain SMTP relay such as Mailpit.
type SMTPMailer struct {
	cfg SMTPConfig
}

// New returns an SMTP mailer, or a noop when no host is configured.
func New(cfg SMTPConfig) Mailer {
	if cfg.Host == "" {
		return NoopMailer{}
	}
	return &SMTPMailer{cfg: cfg}
}

// Send implements Mailer.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return nil
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("notify: dial %s: %w", addr, err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("notify: smtp client: %w", err)
	}
	defer client.Close()

	if err := client.Mail(m.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(buildMessage(m.cfg.From, to, subject, body)); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(from, to, subject, body string) []byte {
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n" + body)
}
