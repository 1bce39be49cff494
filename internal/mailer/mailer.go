// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"fmt"

	"github.com/aktywni/backend/internal/config"
	"gopkg.in/mail.v2"
)

// Mailer sends transactional email using gopkg.in/mail.v2
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// New creates a mailer from the SMTP configuration
func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
	}
}

// SendResetLink sends the password reset link to the given address
func (m *Mailer) SendResetLink(to, link string) error {
	body := fmt.Sprintf(
		`<p>We received a request to reset your password.</p>
<p><a href="%s">Set a new password</a></p>
<p>The link is valid for a limited time and can be used once. If you did not request this, ignore this email.</p>`,
		link,
	)

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password reset")
	msg.SetBody("text/html", body)

	d := mail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
