package sqlstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carbon-chat/carbon/internal/errs"
	"github.com/carbon-chat/carbon/internal/models"
)

func TestCreateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "testuser", "hash123")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "testuser", user.Username)
	require.Equal(t, models.DefaultIcon, user.Icon)

	// Duplicate username must surface as a conflict.
	_, err = s.CreateUser(ctx, "testuser", "otherhash")
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestConcurrentRegisterSameUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateUser(ctx, "contested", "hash")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, errs.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, n-1, conflicts)
}

func TestGetUserByUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "testuser", "hash123")
	require.NoError(t, err)

	user, err := s.GetUserByUsername(ctx, "testuser")
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)
	require.Equal(t, "hash123", user.Password)

	_, err = s.GetUserByUsername(ctx, "nonexistent")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGetUserByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "testuser", "hash123")
	require.NoError(t, err)

	user, err := s.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "testuser", user.Username)

	_, err = s.GetUserByID(ctx, "no-such-id")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUpdatePassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "testuser", "oldhash")
	require.NoError(t, err)

	require.NoError(t, s.UpdatePassword(ctx, user.ID, "newhash"))

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "newhash", got.Password)

	err = s.UpdatePassword(ctx, "no-such-id", "hash")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
