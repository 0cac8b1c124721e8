package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kartyapp/authcore/internal/common"
	"github.com/kartyapp/authcore/internal/server/models"
)

func newUser(username, email string) *models.User {
	return &models.User{
		ID:           uuid.NewString(),
		UserName:     username,
		Email:        email,
		PasswordHash: "x",
		Active:       true,
	}
}

func TestCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewManager().Users(nil)

	created, err := repo.Create(ctx, newUser("alice", "alice@example.com"))
	require.NoError(t, err)
	require.False(t, created.CreatedAt.IsZero())

	byName, err := repo.FindByLogin(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, created.ID, byName.ID)

	byEmail, err := repo.FindByLogin(ctx, "ALICE@EXAMPLE.COM")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	_, err = repo.FindByLogin(ctx, "nobody")
	require.ErrorIs(t, err, common.ErrorNotFound)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.UserName)
}

func TestCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewManager().Users(nil)

	_, err := repo.Create(ctx, newUser("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser("alice", "other@example.com"))
	require.ErrorIs(t, err, common.ErrorDuplicateUser)

	_, err = repo.Create(ctx, newUser("other", "Alice@Example.com"))
	require.ErrorIs(t, err, common.ErrorDuplicateUser)
}

func TestConcurrentCreateSameUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewManager().Users(nil)

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, newUser("alice", "alice@example.com"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, common.ErrorDuplicateUser)
			dup++
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, n-1, dup)
}

func TestUpdatePasswordHashAndSetActive(t *testing.T) {
	ctx := context.Background()
	repo := NewManager().Users(nil)

	created, err := repo.Create(ctx, newUser("alice", "alice@example.com"))
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePasswordHash(ctx, created.ID, "new-hash"))
	require.NoError(t, repo.SetActive(ctx, created.ID, false))

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
	require.False(t, got.Active)

	require.ErrorIs(t, repo.UpdatePasswordHash(ctx, "missing", "h"), common.ErrorNotFound)
	require.ErrorIs(t, repo.SetActive(ctx, "missing", true), common.ErrorNotFound)
}

func TestConsume(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	repo := NewManager().ResetTokens(nil)

	require.NoError(t, repo.Create(ctx, &models.ResetToken{
		ID:        uuid.NewString(),
		UserID:    "u1",
		TokenHash: "digest",
		Expires:   now.Add(15 * time.Minute),
	}))

	userID, err := repo.Consume(ctx, "digest", now)
	require.NoError(t, err)
	require.Equal(t, "u1", userID)

	// Already consumed.
	_, err = repo.Consume(ctx, "digest", now)
	require.ErrorIs(t, err, common.ErrorNotFound)

	// Never issued.
	_, err = repo.Consume(ctx, "other", now)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestConsumeExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	repo := NewManager().ResetTokens(nil)

	require.NoError(t, repo.Create(ctx, &models.ResetToken{
		ID:        uuid.NewString(),
		UserID:    "u1",
		TokenHash: "digest",
		Expires:   now.Add(-time.Minute),
	}))

	_, err := repo.Consume(ctx, "digest", now)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestConcurrentConsumeSingleWinner(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	repo := NewManager().ResetTokens(nil)

	require.NoError(t, repo.Create(ctx, &models.ResetToken{
		ID:        uuid.NewString(),
		UserID:    "u1",
		TokenHash: "digest",
		Expires:   now.Add(15 * time.Minute),
	}))

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Consume(ctx, "digest", now)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
		} else {
			require.ErrorIs(t, err, common.ErrorNotFound)
		}
	}
	require.Equal(t, 1, ok)
}

func TestDeleteExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	m := NewManager()
	repo := m.ResetTokens(nil)

	require.NoError(t, repo.Create(ctx, &models.ResetToken{
		ID: uuid.NewString(), UserID: "u1", TokenHash: "live", Expires: now.Add(time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, &models.ResetToken{
		ID: uuid.NewString(), UserID: "u1", TokenHash: "stale", Expires: now.Add(-time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, &models.ResetToken{
		ID: uuid.NewString(), UserID: "u1", TokenHash: "used", Expires: now.Add(time.Hour),
	}))
	_, err := repo.Consume(ctx, "used", now)
	require.NoError(t, err)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	// The live token is still consumable.
	userID, err := repo.Consume(ctx, "live", now)
	require.NoError(t, err)
	require.Equal(t, "u1", userID)
}
