package api

import (
	"bytes"
	"encoding/json/v2"
	"fmt"
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
	"github.com/reeltrackapp/reeltrack-server/internal/search"
	"github.com/reeltrackapp/reeltrack-server/internal/service"
	"github.com/reeltrackapp/reeltrack-server/internal/store"
)

// testEnvelope mirrors the response envelope with typed data for assertions.
type testEnvelope[T any] struct {
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Success bool   `json:"success"`
}

// testServer wraps a fully wired Server backed by a real store in a temp dir.
type testServer struct {
	*Server
	t *testing.T
}

// stubCatalog serves canned TMDB-style payloads for handler tests.
func stubCatalog() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/550", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"id": 550, "title": "Fight Club", "poster_path": "/fc.jpg", "vote_average": 8.4}`)
	})
	mux.HandleFunc("/search/multi", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"page": 1, "total_pages": 1, "total_results": 1, "results": [
			{"id": 550, "media_type": "movie", "title": "Fight Club", "poster_path": "/fc.jpg"}
		]}`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"status_message": "not found"}`, http.StatusNotFound)
	})
	return mux
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "api-test-*")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	testStore, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	userIndex, err := search.NewUserIndex(search.Options{
		DataPath: tmpDir,
		Logger:   logger,
	})
	require.NoError(t, err)

	keyHex, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(keyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	upstream := httptest.NewServer(stubCatalog())
	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL: upstream.URL,
		APIKey:  "test-key",
	}, logger)

	sessions := service.NewSessionService(testStore, tokenService, logger)
	authService := service.NewAuthService(testStore, sessions, userIndex, logger)
	profiles := service.NewProfileService(testStore, userIndex, logger)
	social := service.NewSocialService(testStore, userIndex, profiles, logger)
	watchlist := service.NewWatchlistService(testStore, logger)
	feed := service.NewFeedService(testStore, catalogClient, profiles, logger)

	server := NewServer(&Services{
		Auth:      authService,
		Session:   sessions,
		Watchlist: watchlist,
		Social:    social,
		Profile:   profiles,
		Feed:      feed,
	}, catalogClient, logger)

	t.Cleanup(func() {
		upstream.Close()
		_ = userIndex.Close()
		_ = testStore.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return &testServer{Server: server, t: t}
}

// do runs a request through the full router and records the response.
func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API and returns its tokens and user.
func (ts *testServer) register(username string) testEnvelope[AuthResult] {
	ts.t.Helper()

	rec := ts.do(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct-horse-battery",
	})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())

	return decodeEnvelope[AuthResult](ts.t, rec)
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope[map[string]string](t, rec)
	require.Equal(t, "healthy", env.Data["status"])
}
