// Package memory provides an in-memory RepositoryManager with the same
// atomicity guarantees as the PostgreSQL implementation. It backs unit
// tests and local development without a database.
package memory

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/kartyapp/authcore/internal/common"
	"github.com/kartyapp/authcore/internal/dbx"
	"github.com/kartyapp/authcore/internal/server/models"
	"github.com/kartyapp/authcore/internal/server/repositories/resettokens"
	"github.com/kartyapp/authcore/internal/server/repositories/users"
)

type resetRow struct {
	userID   string
	expires  time.Time
	consumed bool
}

// Manager holds all state behind one mutex. Uniqueness checks and reset
// consumption therefore behave like the unique-index and conditional-update
// guarantees of the SQL schema: no check-then-act races.
type Manager struct {
	mu          sync.Mutex
	usersByID   map[string]*models.User
	resetTokens map[string]*resetRow // keyed by token digest
}

// NewManager constructs an empty in-memory manager.
func NewManager() *Manager {
	return &Manager{
		usersByID:   make(map[string]*models.User),
		resetTokens: make(map[string]*resetRow),
	}
}

// RunMigrations is a no-op: there is no schema.
func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }

// Users returns the in-memory users repository. The DBTX is ignored; all
// operations are already atomic under the manager mutex.
func (m *Manager) Users(dbx.DBTX) users.Repository { return &userRepo{m: m} }

// ResetTokens returns the in-memory reset-token repository.
func (m *Manager) ResetTokens(dbx.DBTX) resettokens.Repository { return &resetRepo{m: m} }

type userRepo struct {
	m *Manager
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, existing := range r.m.usersByID {
		if existing.UserName == user.UserName || strings.EqualFold(existing.Email, user.Email) {
			return nil, common.ErrorDuplicateUser
		}
	}

	stored := copyUser(user)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.m.usersByID[stored.ID] = stored
	return copyUser(stored), nil
}

func (r *userRepo) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, u := range r.m.usersByID {
		if u.UserName == login || strings.EqualFold(u.Email, login) {
			return copyUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	u, ok := r.m.usersByID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyUser(u), nil
}

func (r *userRepo) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	u, ok := r.m.usersByID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *userRepo) SetActive(ctx context.Context, userID string, active bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	u, ok := r.m.usersByID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.Active = active
	return nil
}

type resetRepo struct {
	m *Manager
}

func (r *resetRepo) Create(ctx context.Context, token *models.ResetToken) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	r.m.resetTokens[token.TokenHash] = &resetRow{
		userID:  token.UserID,
		expires: token.Expires,
	}
	return nil
}

func (r *resetRepo) Consume(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	row, ok := r.m.resetTokens[tokenHash]
	if !ok || row.consumed {
		return "", common.ErrorNotFound
	}
	if !row.expires.After(now) {
		return "", common.ErrTokenExpired
	}
	row.consumed = true
	return row.userID, nil
}

func (r *resetRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var n int64
	for hash, row := range r.m.resetTokens {
		if row.consumed || !row.expires.After(now) {
			delete(r.m.resetTokens, hash)
			n++
		}
	}
	return n, nil
}
