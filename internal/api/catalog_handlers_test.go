package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeltrackapp/reeltrack-server/internal/catalog"
)

func TestCatalogSearch(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.register("alice")

	rec := ts.do(http.MethodGet, "/api/v1/catalog/search?query=fight", alice.Data.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	page := decodeEnvelope[catalog.Page](t, rec)
	require.Len(t, page.Data.Results, 1)
	assert.Equal(t, "Fight Club", page.Data.Results[0].Title)
}

func TestCatalogSearch_EmptyQuery(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.register("alice")

	rec := ts.do(http.MethodGet, "/api/v1/catalog/search?query=", alice.Data.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogSearch_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodGet, "/api/v1/catalog/search?query=fight", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMediaDetails(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.register("alice")

	rec := ts.do(http.MethodGet, "/api/v1/catalog/movie/550", alice.Data.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	media := decodeEnvelope[*catalog.Media](t, rec)
	assert.Equal(t, "Fight Club", media.Data.Title)
	assert.Equal(t, int64(550), media.Data.TMDBID)
}

func TestMediaDetails_UnknownKind(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.register("alice")

	rec := ts.do(http.MethodGet, "/api/v1/catalog/game/550", alice.Data.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMediaDetails_UpstreamNotFound(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.register("alice")

	rec := ts.do(http.MethodGet, "/api/v1/catalog/movie/404404", alice.Data.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDiscover_BadGenre(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.register("alice")

	rec := ts.do(http.MethodGet, "/api/v1/catalog/discover/movie?genre=abc", alice.Data.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
