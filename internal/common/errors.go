// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Credential errors. ErrorInvalidCredentials deliberately covers both
	// "no such account" and "wrong password" so responses do not reveal
	// whether an identifier is registered.
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorDuplicateUser      = errors.New("username or email already registered")
	ErrorUserNotFound       = errors.New("user not found")

	// Access token lifecycle errors.
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrMissingToken     = errors.New("missing token")

	// Reset token errors. ErrResetTokenInvalid is the only kind surfaced to
	// callers; expiry vs. absence stays an internal distinction.
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")

	// Mail collaborator errors.
	ErrDeliveryFailed = errors.New("mail delivery failed")
)
