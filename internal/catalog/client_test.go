package catalog_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeltrackapp/reeltrack-server/internal/catalog"
	"github.com/reeltrackapp/reeltrack-server/internal/domain"
	apperrors "github.com/reeltrackapp/reeltrack-server/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *catalog.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return catalog.NewClient(catalog.Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
	}, slog.New(slog.DiscardHandler))
}

func TestClient_SearchMulti(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/multi", r.URL.Path)
		assert.Equal(t, "fight club", r.URL.Query().Get("query"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"page": 1,
			"results": [
				{"id": 550, "media_type": "movie", "title": "Fight Club", "release_date": "1999-10-15", "poster_path": "/fc.jpg"},
				{"id": 1399, "media_type": "tv", "name": "Game of Thrones", "first_air_date": "2011-04-17"},
				{"id": 287, "media_type": "person", "name": "Brad Pitt"}
			],
			"total_pages": 1,
			"total_results": 3
		}`))
	})

	page, err := client.SearchMulti(context.Background(), "fight club", 1)
	require.NoError(t, err)

	// The person row is dropped
	require.Len(t, page.Results, 2)

	movie := page.Results[0]
	assert.Equal(t, int64(550), movie.TMDBID)
	assert.Equal(t, domain.MediaKindMovie, movie.Kind)
	assert.Equal(t, "Fight Club", movie.Title)
	assert.Equal(t, "1999-10-15", movie.ReleaseDate)

	series := page.Results[1]
	assert.Equal(t, domain.MediaKindSeries, series.Kind)
	assert.Equal(t, "Game of Thrones", series.Title)
	assert.Equal(t, "2011-04-17", series.ReleaseDate)
}

func TestClient_SearchMulti_EmptyQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.SearchMulti(context.Background(), "", 1)
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}

func TestClient_PopularSeries_StampsKind(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/popular", r.URL.Path)
		_, _ = w.Write([]byte(`{"page": 1, "results": [{"id": 1399, "name": "Game of Thrones"}], "total_pages": 1, "total_results": 1}`))
	})

	page, err := client.GetPopularSeries(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, domain.MediaKindSeries, page.Results[0].Kind)
}

func TestClient_GetMediaDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/550", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": 550, "title": "Fight Club", "overview": "An insomniac...", "genres": [{"id": 18, "name": "Drama"}], "vote_average": 8.4}`))
	})

	media, err := client.GetMediaDetails(context.Background(), domain.MediaRef{TMDBID: 550, Kind: domain.MediaKindMovie})
	require.NoError(t, err)
	assert.Equal(t, domain.MediaKindMovie, media.Kind)
	assert.Equal(t, "Fight Club", media.Title)
	require.Len(t, media.Genres, 1)
	assert.Equal(t, "Drama", media.Genres[0].Name)
}

func TestClient_GetMediaDetails_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetMediaDetails(context.Background(), domain.MediaRef{TMDBID: 99999999, Kind: domain.MediaKindMovie})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestClient_UpstreamErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.GetTrending(context.Background(), catalog.TrendingWeek)
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeUpstreamUnavailable, appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.HTTPStatus())
}

func TestClient_ImageURL(t *testing.T) {
	client := catalog.NewClient(catalog.Config{APIKey: "k"}, slog.New(slog.DiscardHandler))

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", client.ImageURL("/abc.jpg", ""))
	assert.Equal(t, "https://image.tmdb.org/t/p/w200/abc.jpg", client.ImageURL("/abc.jpg", "w200"))
	assert.Equal(t, catalog.PlaceholderPoster, client.ImageURL("", "w500"))
}
