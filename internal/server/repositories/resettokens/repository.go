// Package resettokens declares the repository contract for single-use
// password-reset tokens. Only token digests are stored.
package resettokens

import (
	"context"
	"time"

	"github.com/kartyapp/authcore/internal/server/models"
)

// Repository defines operations for issuing and consuming reset tokens.
type Repository interface {
	// Create stores a new reset token row (digest, owner, expiry).
	Create(ctx context.Context, token *models.ResetToken) error

	// Consume atomically marks the token with the given digest as used and
	// returns its owner's user id. It fails with common.ErrorNotFound when
	// no live token matches (absent or already consumed) and with
	// common.ErrTokenExpired when the token exists but its TTL has passed.
	// A second Consume with the same digest always fails.
	Consume(ctx context.Context, tokenHash string, now time.Time) (string, error)

	// DeleteExpired removes consumed and expired rows and reports how many
	// were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
