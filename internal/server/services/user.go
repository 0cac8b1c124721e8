// Package services contains the application services orchestrating
// credential issuance and verification.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kartyapp/authcore/internal/common"
	"github.com/kartyapp/authcore/internal/dbx"
	"github.com/kartyapp/authcore/internal/logging"
	"github.com/kartyapp/authcore/internal/server/auth"
	"github.com/kartyapp/authcore/internal/server/config"
	"github.com/kartyapp/authcore/internal/server/mail"
	"github.com/kartyapp/authcore/internal/server/models"
	"github.com/kartyapp/authcore/internal/server/repositories/repomanager"
)

// TokenResult is the outcome of a successful login.
type TokenResult struct {
	AccessToken string
	ExpiresAt   time.Time
}

// AuthService orchestrates registration, login, token resolution, logout and
// the password-reset flows. It is the sole caller of the hasher, the token
// codec and the reset-secret helpers; persistence goes through the
// repository manager.
type AuthService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	hasher *auth.Hasher
	codec  *auth.Codec
	mailer mail.Mailer
	logger logging.Logger

	accessTokenValidity time.Duration
	resetTokenValidity  time.Duration
	now                 func() time.Time
}

// NewAuthService wires an AuthService from configuration. The signing secret
// and cost factor are fixed here; rotating the secret requires a restart and
// invalidates all outstanding tokens.
func NewAuthService(db *sql.DB, rm repomanager.RepositoryManager, mailer mail.Mailer, logger logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                  db,
		rm:                  rm,
		hasher:              auth.NewHasher(cfg.PasswordHashCost),
		codec:               auth.NewCodec([]byte(cfg.SecretKey), nil),
		mailer:              mailer,
		logger:              logger.With("module", "auth_service"),
		accessTokenValidity: cfg.AccessTokenValidityDuration,
		resetTokenValidity:  cfg.ResetTokenValidityDuration,
		now:                 time.Now,
	}
}

// Register creates a new active account. Uniqueness of username and email is
// enforced by the store; a violation surfaces as common.ErrorDuplicateUser.
// Registration does not log the user in.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", common.ErrorValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     username,
		Email:        email,
		PasswordHash: hash,
		Active:       true,
	}

	created, err := s.rm.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateUser) {
			return nil, common.ErrorDuplicateUser
		}
		s.logger.Error(ctx, "user create failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID, "username", created.UserName)
	return created, nil
}

// Login verifies the identifier/password pair and issues an access token.
// Unknown account, deactivated account and wrong password all produce the
// same common.ErrorInvalidCredentials; the unknown-account path burns a
// bcrypt comparison so its timing matches the others.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*TokenResult, error) {
	user, err := s.rm.Users(s.db).FindByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.DummyVerify(password)
			return nil, common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "login lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}

	if !user.Active {
		return nil, common.ErrorInvalidCredentials
	}

	token, expiresAt, err := s.codec.Issue(user.ID, s.accessTokenValidity)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &TokenResult{AccessToken: token, ExpiresAt: expiresAt}, nil
}

// Resolve verifies an access token and returns the account it belongs to.
// A token with a valid signature is still rejected with
// common.ErrorUserNotFound when the account has been deactivated or removed
// after issuance; this lookup is what closes the statelessness gap.
func (s *AuthService) Resolve(ctx context.Context, tokenString string) (*models.User, error) {
	userID, err := s.codec.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.rm.Users(s.db).FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUserNotFound
		}
		s.logger.Error(ctx, "resolve lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if !user.Active {
		return nil, common.ErrorUserNotFound
	}

	return user, nil
}

// Logout is a client-side discard signal. Tokens are stateless, so there is
// nothing to invalidate server-side; the call is logged and succeeds.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	if userID, err := s.codec.Verify(tokenString); err == nil {
		s.logger.Info(ctx, "user logged out", "user_id", userID)
	}
	return nil
}

// RequestReset issues a reset token for the account behind identifier and
// mails the raw secret. For an unknown identifier it performs
// equivalent-cost work and reports success, so neither the response nor its
// timing reveals whether the account exists. Mail transport failures for a
// known account surface as common.ErrDeliveryFailed.
func (s *AuthService) RequestReset(ctx context.Context, identifier string) error {
	user, err := s.rm.Users(s.db).FindByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Equivalent-cost no-op: generate and digest a secret that is
			// then discarded.
			if raw, genErr := auth.NewResetSecret(); genErr == nil {
				_ = auth.HashResetSecret(raw)
			}
			return nil
		}
		s.logger.Error(ctx, "reset lookup failed", "error", err.Error())
		return common.ErrorInternal
	}

	raw, err := auth.NewResetSecret()
	if err != nil {
		return common.ErrorInternal
	}

	token := &models.ResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: auth.HashResetSecret(raw),
		Expires:   s.now().Add(s.resetTokenValidity),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.rm.ResetTokens(tx).Create(ctx, token)
	})
	if err != nil {
		s.logger.Error(ctx, "reset token store failed", "error", err.Error())
		return common.ErrorInternal
	}

	if err := s.mailer.SendResetLink(ctx, user.Email, raw); err != nil {
		s.logger.Error(ctx, "reset mail delivery failed", "error", err.Error())
		return fmt.Errorf("%w: %v", common.ErrDeliveryFailed, err)
	}

	s.logger.Info(ctx, "reset link sent", "user_id", user.ID)
	return nil
}

// ConfirmReset consumes a raw reset token and installs the new password.
// Consumption and the password update run in one transaction, so concurrent
// confirms with the same token yield exactly one success. Any token problem
// (absent, expired, already used) surfaces as common.ErrResetTokenInvalid.
func (s *AuthService) ConfirmReset(ctx context.Context, rawToken, newPassword string) error {
	if rawToken == "" || newPassword == "" {
		return fmt.Errorf("%w: token and new password are required", common.ErrorValidation)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	digest := auth.HashResetSecret(rawToken)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userID, err := s.rm.ResetTokens(tx).Consume(ctx, digest, s.now())
		if err != nil {
			return err
		}
		return s.rm.Users(tx).UpdatePasswordHash(ctx, userID, hash)
	})

	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrTokenExpired):
			return common.ErrResetTokenInvalid
		default:
			s.logger.Error(ctx, "reset confirm failed", "error", err.Error())
			return common.ErrorInternal
		}
	}

	s.logger.Info(ctx, "password reset confirmed")
	return nil
}

// Deactivate flips an account to inactive. Outstanding access tokens for the
// account stop resolving immediately.
func (s *AuthService) Deactivate(ctx context.Context, userID string) error {
	if err := s.rm.Users(s.db).SetActive(ctx, userID, false); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUserNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

// PurgeExpiredResetTokens removes reset tokens that can no longer be
// consumed. Intended to be called periodically.
func (s *AuthService) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	return s.rm.ResetTokens(s.db).DeleteExpired(ctx, s.now())
}
