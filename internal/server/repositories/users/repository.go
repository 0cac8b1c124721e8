// Package users declares the repository contract for account persistence.
package users

import (
	"context"

	"github.com/kartyapp/authcore/internal/server/models"
)

// Repository defines operations over persisted user accounts.
type Repository interface {
	// Create inserts a new user. Username and email uniqueness is enforced
	// by the store; violations surface as common.ErrorDuplicateUser.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByLogin looks an account up by username or email. The email
	// comparison is case-insensitive. Absence surfaces as common.ErrorNotFound.
	FindByLogin(ctx context.Context, login string) (*models.User, error)

	// FindByID looks an account up by its opaque id.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// UpdatePasswordHash replaces the stored password hash for userID.
	UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error

	// SetActive flips the account-active flag. Deactivation is the only
	// deletion model this service supports.
	SetActive(ctx context.Context, userID string, active bool) error
}
