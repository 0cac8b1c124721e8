package mail

import (
	"context"

	"github.com/kartyapp/authcore/internal/logging"
)

// LogMailer logs reset links instead of delivering them. Used in development
// when no SMTP endpoint is configured. The raw token is not logged.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("module", "mail")}
}

func (m *LogMailer) SendResetLink(ctx context.Context, email, rawToken string) error {
	m.logger.Info(ctx, "reset link issued", "email", email, "token_len", len(rawToken))
	return nil
}
