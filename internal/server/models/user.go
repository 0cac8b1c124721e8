package models

import "time"

// User is a registered account. PasswordHash is the bcrypt hash of the
// password; the plaintext is never stored. Accounts are deactivated, never
// physically deleted.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}
