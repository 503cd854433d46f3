package service

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeltrackapp/reeltrack-server/internal/domain"
)

// stubCatalogHandler serves minimal TMDB detail payloads and counts requests.
func stubCatalogHandler(calls *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/movie/550":
			_, _ = w.Write([]byte(`{"id": 550, "title": "Fight Club", "poster_path": "/fc.jpg"}`))
		case "/tv/1399":
			_, _ = w.Write([]byte(`{"id": 1399, "name": "Game of Thrones", "poster_path": "/got.jpg"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestFeed_EmptyWithoutFollowees(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "user-a", "alpha")

	var calls atomic.Int64
	feed := env.newFeedService(t, stubCatalogHandler(&calls))

	items, err := feed.BuildFeed(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, calls.Load(), "no catalog calls for an empty feed")
}

func TestFeed_BuildsEnrichedItems(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.createUser(t, "user-a", "alpha")
	env.createUser(t, "user-b", "bravo")
	require.NoError(t, env.social.Follow(ctx, "user-a", "user-b"))

	_, _, err := env.watchlist.AddToList(ctx, "user-b", domain.MediaRef{TMDBID: 550, Kind: domain.MediaKindMovie}, domain.StatusToWatch)
	require.NoError(t, err)
	_, _, err = env.watchlist.RateMedia(ctx, "user-b", domain.MediaRef{TMDBID: 1399, Kind: domain.MediaKindSeries}, 8)
	require.NoError(t, err)

	var calls atomic.Int64
	feed := env.newFeedService(t, stubCatalogHandler(&calls))

	items, err := feed.BuildFeed(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Newest first: the rating came last
	rated := items[0]
	assert.Equal(t, domain.ActivityRated, rated.Event.Kind)
	assert.Equal(t, "Game of Thrones", rated.MediaTitle)
	assert.Equal(t, "bravo rated Game of Thrones 8/10", rated.Text)
	assert.Contains(t, rated.PosterURL, "/got.jpg")

	added := items[1]
	assert.Equal(t, domain.ActivityAddedToList, added.Event.Kind)
	assert.Equal(t, "bravo added Fight Club to their to_watch list", added.Text)
	assert.Equal(t, "bravo", added.Actor.Username)
}

func TestFeed_OneCatalogFetchPerDistinctKey(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.createUser(t, "user-a", "alpha")
	env.createUser(t, "user-b", "bravo")
	require.NoError(t, env.social.Follow(ctx, "user-a", "user-b"))

	// Three events, all about the same movie
	ref := domain.MediaRef{TMDBID: 550, Kind: domain.MediaKindMovie}
	_, _, err := env.watchlist.AddToList(ctx, "user-b", ref, domain.StatusToWatch)
	require.NoError(t, err)
	_, _, err = env.watchlist.UpdateStatus(ctx, "user-b", ref, domain.StatusWatching)
	require.NoError(t, err)
	_, _, err = env.watchlist.RateMedia(ctx, "user-b", ref, 9)
	require.NoError(t, err)

	var calls atomic.Int64
	feed := env.newFeedService(t, stubCatalogHandler(&calls))

	items, err := feed.BuildFeed(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, int64(1), calls.Load(), "duplicate media keys must coalesce")

	for _, item := range items {
		assert.Equal(t, "Fight Club", item.MediaTitle)
	}
}

func TestFeed_FailedEnrichmentDegrades(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.createUser(t, "user-a", "alpha")
	env.createUser(t, "user-b", "bravo")
	require.NoError(t, env.social.Follow(ctx, "user-a", "user-b"))

	_, _, err := env.watchlist.AddToList(ctx, "user-b", domain.MediaRef{TMDBID: 999, Kind: domain.MediaKindMovie}, domain.StatusToWatch)
	require.NoError(t, err)

	feed := env.newFeedService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	items, err := feed.BuildFeed(ctx, "user-a")
	require.NoError(t, err, "catalog failure must not abort the build")
	require.Len(t, items, 1)
	assert.Equal(t, "Unknown", items[0].MediaTitle)
	assert.Empty(t, items[0].PosterURL)
	assert.Equal(t, "bravo added Unknown to their to_watch list", items[0].Text)
}

func TestFeed_CapsAtLimit(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.createUser(t, "user-a", "alpha")
	env.createUser(t, "user-b", "bravo")
	require.NoError(t, env.social.Follow(ctx, "user-a", "user-b"))

	for i := range 60 {
		ref := domain.MediaRef{TMDBID: int64(1000 + i), Kind: domain.MediaKindMovie}
		_, _, err := env.watchlist.AddToList(ctx, "user-b", ref, domain.StatusToWatch)
		require.NoError(t, err)
	}

	feed := env.newFeedService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 1, "title": "Whatever"}`)
	})

	items, err := feed.BuildFeed(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, items, 50)
}

func TestFeed_OnlyFolloweesAppear(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.createUser(t, "user-a", "alpha")
	env.createUser(t, "user-b", "bravo")
	env.createUser(t, "user-c", "charlie")
	require.NoError(t, env.social.Follow(ctx, "user-a", "user-b"))

	_, _, err := env.watchlist.AddToList(ctx, "user-b", domain.MediaRef{TMDBID: 550, Kind: domain.MediaKindMovie}, domain.StatusToWatch)
	require.NoError(t, err)
	_, _, err = env.watchlist.AddToList(ctx, "user-c", domain.MediaRef{TMDBID: 1399, Kind: domain.MediaKindSeries}, domain.StatusToWatch)
	require.NoError(t, err)

	var calls atomic.Int64
	feed := env.newFeedService(t, stubCatalogHandler(&calls))

	items, err := feed.BuildFeed(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "user-b", items[0].Event.UserID)
}
