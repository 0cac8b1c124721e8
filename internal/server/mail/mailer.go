// Package mail defines the mail-delivery collaborator used for password
// reset links, with an SMTP implementation and a log-only one for
// development.
package mail

import "context"

// Mailer delivers password-reset links. Implementations must report delivery
// problems as errors; the service layer wraps them as a distinct
// DeliveryFailed condition.
type Mailer interface {
	// SendResetLink sends the raw reset secret to email as a clickable link.
	SendResetLink(ctx context.Context, email, rawToken string) error
}
