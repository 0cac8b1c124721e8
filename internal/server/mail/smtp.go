package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer sends reset links through a plain SMTP endpoint with optional
// PLAIN auth (e.g. smtp.gmail.com:587 with app credentials).
type SMTPMailer struct {
	addr         string // host:port
	username     string
	password     string
	from         string
	resetBaseURL string
}

// NewSMTPMailer constructs an SMTPMailer. Username may be empty for
// unauthenticated relays.
func NewSMTPMailer(addr, username, password, from, resetBaseURL string) *SMTPMailer {
	return &SMTPMailer{
		addr:         addr,
		username:     username,
		password:     password,
		from:         from,
		resetBaseURL: resetBaseURL,
	}
}

// sendMail is a test seam for smtp.SendMail.
var sendMail = smtp.SendMail

func (m *SMTPMailer) SendResetLink(ctx context.Context, email, rawToken string) error {
	var auth smtp.Auth
	if m.username != "" {
		host := m.addr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.username, m.password, host)
	}

	msg := buildResetMessage(m.from, email, m.resetBaseURL, rawToken)

	if err := sendMail(m.addr, auth, m.from, []string{email}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildResetMessage(from, to, resetBaseURL, rawToken string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: Password reset\r\n")
	b.WriteString("\r\n")
	b.WriteString("A password reset was requested for your account.\r\n")
	b.WriteString("Follow the link below to choose a new password. ")
	b.WriteString("The link is valid for a short time and can be used once.\r\n\r\n")
	b.WriteString(resetBaseURL + "?token=" + rawToken + "\r\n\r\n")
	b.WriteString("If you did not request a reset, you can ignore this message.\r\n")
	return []byte(b.String())
}
