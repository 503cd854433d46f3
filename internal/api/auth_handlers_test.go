package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	ts := setupTestServer(t)

	env := ts.register("alice")

	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Data.AccessToken)
	assert.NotEmpty(t, env.Data.RefreshToken)
	assert.Equal(t, "Bearer", env.Data.TokenType)
	assert.Equal(t, "alice", env.Data.User.Username)
	assert.Equal(t, "alice@example.com", env.Data.User.Email)
}

func TestRegister_NoPasswordHashInResponse(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "correct-horse-battery",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password_hash")
	assert.NotContains(t, rec.Body.String(), "$argon2id$")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	ts := setupTestServer(t)
	ts.register("carol")

	rec := ts.do(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "carol",
		"email":    "other@example.com",
		"password": "correct-horse-battery",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_ValidationErrors(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "missing email",
			body: map[string]any{"username": "dave", "password": "correct-horse-battery"},
		},
		{
			name: "short password",
			body: map[string]any{"username": "dave", "email": "dave@example.com", "password": "short"},
		},
		{
			name: "username with spaces",
			body: map[string]any{"username": "not valid", "email": "dave@example.com", "password": "correct-horse-battery"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodPost, "/api/v1/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin_Success(t *testing.T) {
	ts := setupTestServer(t)
	ts.register("erin")

	rec := ts.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "erin@example.com",
		"password": "correct-horse-battery",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope[AuthResult](t, rec)
	assert.NotEmpty(t, env.Data.AccessToken)
	assert.Equal(t, "erin", env.Data.User.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.register("frank")

	rec := ts.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "frank@example.com",
		"password": "wrong-password-entirely",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_RotatesToken(t *testing.T) {
	ts := setupTestServer(t)
	env := ts.register("grace")

	rec := ts.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{
		"refresh_token": env.Data.RefreshToken,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	refreshed := decodeEnvelope[AuthResult](t, rec)
	assert.NotEmpty(t, refreshed.Data.RefreshToken)
	assert.NotEqual(t, env.Data.RefreshToken, refreshed.Data.RefreshToken)

	// The old refresh token no longer works.
	rec = ts.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{
		"refresh_token": env.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_Idempotent(t *testing.T) {
	ts := setupTestServer(t)
	env := ts.register("heidi")

	rec := ts.do(http.MethodPost, "/api/v1/auth/logout", "", map[string]any{
		"refresh_token": env.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Logging out again with the same token still succeeds.
	rec = ts.do(http.MethodPost, "/api/v1/auth/logout", "", map[string]any{
		"refresh_token": env.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/users/me", "v4.local.garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env := ts.register("ivan")
	rec = ts.do(http.MethodGet, "/api/v1/users/me", env.Data.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	me := decodeEnvelope[UserResponse](t, rec)
	assert.Equal(t, "ivan", me.Data.Username)
}
