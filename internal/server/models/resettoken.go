package models

import "time"

// ResetToken is the persisted half of a password-reset credential. Only the
// SHA-256 digest of the secret is stored; the raw secret exists solely in
// the reset e-mail. A token is valid until Expires and for exactly one
// successful consumption.
type ResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	Expires   time.Time
	CreatedAt time.Time
}
