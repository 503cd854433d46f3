package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reeltrackapp/reeltrack-server/internal/domain"
	"github.com/reeltrackapp/reeltrack-server/internal/store"
)

func testSession(id, userID, tokenHash string, expiresAt time.Time) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        expiresAt,
		CreatedAt:        now,
		LastSeenAt:       now,
	}
}

func TestSessions_CreateAndGet(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	sess := testSession("sess-1", "user-1", "hash-abc", time.Now().Add(time.Hour))
	require.NoError(t, s.CreateSession(ctx, sess))

	got, err := s.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", got.UserID)

	byToken, err := s.GetSessionByRefreshToken(ctx, "hash-abc")
	require.NoError(t, err)
	require.Equal(t, "sess-1", byToken.ID)
}

func TestSessions_Expired(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	sess := testSession("sess-1", "user-1", "hash-abc", time.Now().Add(-time.Minute))
	require.NoError(t, s.CreateSession(ctx, sess))

	_, err := s.GetSession(ctx, "sess-1")
	require.ErrorIs(t, err, store.ErrSessionExpired)
}

func TestSessions_TokenRotation(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	sess := testSession("sess-1", "user-1", "hash-old", time.Now().Add(time.Hour))
	require.NoError(t, s.CreateSession(ctx, sess))

	sess.RefreshTokenHash = "hash-new"
	require.NoError(t, s.UpdateSession(ctx, sess))

	_, err := s.GetSessionByRefreshToken(ctx, "hash-old")
	require.ErrorIs(t, err, store.ErrSessionNotFound)

	got, err := s.GetSessionByRefreshToken(ctx, "hash-new")
	require.NoError(t, err)
	require.Equal(t, "sess-1", got.ID)
}

func TestSessions_DeleteAllForUser(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	expires := time.Now().Add(time.Hour)
	require.NoError(t, s.CreateSession(ctx, testSession("sess-1", "user-1", "h1", expires)))
	require.NoError(t, s.CreateSession(ctx, testSession("sess-2", "user-1", "h2", expires)))
	require.NoError(t, s.CreateSession(ctx, testSession("sess-3", "user-2", "h3", expires)))

	sessions, err := s.ListUserSessions(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	require.NoError(t, s.DeleteAllUserSessions(ctx, "user-1"))

	sessions, err = s.ListUserSessions(ctx, "user-1")
	require.NoError(t, err)
	require.Empty(t, sessions)

	// Other users' sessions are untouched
	got, err := s.GetSession(ctx, "sess-3")
	require.NoError(t, err)
	require.Equal(t, "user-2", got.UserID)
}
