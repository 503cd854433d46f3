package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reeltrackapp/reeltrack-server/internal/auth"
	"github.com/reeltrackapp/reeltrack-server/internal/catalog"
	"github.com/reeltrackapp/reeltrack-server/internal/domain"
	"github.com/reeltrackapp/reeltrack-server/internal/search"
	"github.com/reeltrackapp/reeltrack-server/internal/store"
)

// testEnv bundles the real store, index and services backing service tests.
type testEnv struct {
	store     *store.Store
	userIndex *search.UserIndex
	sessions  *SessionService
	auth      *AuthService
	profiles  *ProfileService
	social    *SocialService
	watchlist *WatchlistService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	testStore, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userIndex, err := search.NewUserIndex(search.Options{
		DataPath: tmpDir,
		Logger:   logger,
	})
	require.NoError(t, err)

	keyHex, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(keyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	sessions := NewSessionService(testStore, tokenService, logger)
	profiles := NewProfileService(testStore, userIndex, logger)

	env := &testEnv{
		store:     testStore,
		userIndex: userIndex,
		sessions:  sessions,
		auth:      NewAuthService(testStore, sessions, userIndex, logger),
		profiles:  profiles,
		social:    NewSocialService(testStore, userIndex, profiles, logger),
		watchlist: NewWatchlistService(testStore, logger),
	}

	t.Cleanup(func() {
		_ = userIndex.Close()
		_ = testStore.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return env
}

// newFeedService wires a FeedService against a stub catalog server.
func (env *testEnv) newFeedService(t *testing.T, handler http.HandlerFunc) *FeedService {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := catalog.NewClient(catalog.Config{BaseURL: srv.URL, APIKey: "test"}, logger)
	return NewFeedService(env.store, client, env.profiles, logger)
}

// createUser inserts a user directly into the store and search index.
func (env *testEnv) createUser(t *testing.T, id, username string) *domain.User {
	t.Helper()

	now := time.Now()
	user := &domain.User{
		ID:           id,
		Username:     username,
		Email:        username + "@test.com",
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, env.store.Users.Create(context.Background(), id, user))
	require.NoError(t, env.userIndex.IndexUser(user))
	return user
}
