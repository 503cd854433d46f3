package search_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reeltrackapp/reeltrack-server/internal/domain"
	"github.com/reeltrackapp/reeltrack-server/internal/search"
)

func setupTestIndex(t *testing.T) *search.UserIndex {
	t.Helper()

	idx, err := search.NewUserIndex(search.Options{
		DataPath: t.TempDir(),
		Logger:   slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	return idx
}

func TestUserIndex_IndexAndSearch(t *testing.T) {
	idx := setupTestIndex(t)

	users := []*domain.User{
		{ID: "user-1", Username: "moviebuff", DisplayName: "Movie Buff"},
		{ID: "user-2", Username: "seriesjunkie", DisplayName: "Series Junkie", Bio: "I binge everything"},
		{ID: "user-3", Username: "casual", DisplayName: "Casual Watcher"},
	}
	require.NoError(t, idx.IndexUsers(users))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	res, err := idx.Search(context.Background(), "moviebuff", 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, "user-1", res.Hits[0].ID)
	assert.Equal(t, "moviebuff", res.Hits[0].Username)
}

func TestUserIndex_PrefixSearch(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexUser(&domain.User{ID: "user-1", Username: "moviebuff", DisplayName: "Movie Buff"}))
	require.NoError(t, idx.IndexUser(&domain.User{ID: "user-2", Username: "musicfan", DisplayName: "Music Fan"}))

	res, err := idx.Search(context.Background(), "movie", 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, "user-1", res.Hits[0].ID)
}

func TestUserIndex_SearchByBio(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexUser(&domain.User{ID: "user-1", Username: "quiet", Bio: "documentary enthusiast"}))

	res, err := idx.Search(context.Background(), "documentary", 10, 0)
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "user-1", res.Hits[0].ID)
}

func TestUserIndex_DeleteUser(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexUser(&domain.User{ID: "user-1", Username: "ghost"}))
	require.NoError(t, idx.DeleteUser("user-1"))

	res, err := idx.Search(context.Background(), "ghost", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, res.Hits)
}

func TestUserIndex_ReindexUpdatesFields(t *testing.T) {
	idx := setupTestIndex(t)

	u := &domain.User{ID: "user-1", Username: "oldhandle"}
	require.NoError(t, idx.IndexUser(u))

	u.Username = "newhandle"
	require.NoError(t, idx.IndexUser(u))

	res, err := idx.Search(context.Background(), "newhandle", 10, 0)
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}
