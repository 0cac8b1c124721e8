package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kartyapp/authcore/internal/common"
	"github.com/kartyapp/authcore/internal/dbx"
	"github.com/kartyapp/authcore/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new reset token row.
func (r *PostgresRepository) Create(ctx context.Context, token *models.ResetToken) error {
	query := `
		INSERT INTO reset_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, token.ID, token.UserID, token.TokenHash, token.Expires); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Consume marks the live token with the given digest as used and returns its
// owner. Single-use is enforced by the conditional UPDATE itself: concurrent
// calls race on the same row and exactly one sees it unconsumed.
func (r *PostgresRepository) Consume(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	query := `
		UPDATE reset_tokens SET consumed_at = $2
		WHERE token_hash = $1 AND consumed_at IS NULL AND expires_at > $2
		RETURNING user_id
	`
	var userID string
	err := r.db.QueryRowContext(ctx, query, tokenHash, now).Scan(&userID)
	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("db error: %w", err)
	}

	// Distinguish an expired-but-unused token from an absent or already
	// consumed one.
	classify := `
		SELECT expires_at, consumed_at
		FROM reset_tokens
		WHERE token_hash = $1
	`
	var expires time.Time
	var consumed sql.NullTime
	err = r.db.QueryRowContext(ctx, classify, tokenHash).Scan(&expires, &consumed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	if !consumed.Valid && !expires.After(now) {
		return "", common.ErrTokenExpired
	}
	return "", common.ErrorNotFound
}

// DeleteExpired removes rows that can never be consumed again.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM reset_tokens
		WHERE expires_at <= $1 OR consumed_at IS NOT NULL
	`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
