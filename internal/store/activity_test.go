package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reeltrackapp/reeltrack-server/internal/domain"
)

func testEvent(id, userID string, kind domain.ActivityKind, createdAt time.Time) *domain.ActivityEvent {
	return &domain.ActivityEvent{
		ID:        id,
		UserID:    userID,
		Kind:      kind,
		TMDBID:    550,
		MediaKind: domain.MediaKindMovie,
		CreatedAt: createdAt,
	}
}

func TestActivity_CreateAndGet(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	event := testEvent("act-1", "user-1", domain.ActivityAddedToList, time.Now())
	require.NoError(t, s.CreateActivity(ctx, event))

	got, err := s.GetActivity(ctx, "act-1")
	require.NoError(t, err)
	require.Equal(t, domain.ActivityAddedToList, got.Kind)
	require.Equal(t, int64(550), got.TMDBID)
}

func TestActivity_GetUserActivities_NewestFirst(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	for i := range 5 {
		event := testEvent(
			fmt.Sprintf("act-%d", i),
			"user-1",
			domain.ActivityStatusUpdate,
			base.Add(time.Duration(i)*time.Minute),
		)
		require.NoError(t, s.CreateActivity(ctx, event))
	}

	events, err := s.GetUserActivities(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, events, 5)
	for i := 1; i < len(events); i++ {
		require.True(t, events[i-1].CreatedAt.After(events[i].CreatedAt),
			"events must sort newest first")
	}

	limited, err := s.GetUserActivities(ctx, "user-1", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, "act-4", limited[0].ID)
}

func TestActivity_GetActivitiesByActors(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	require.NoError(t, s.CreateActivity(ctx, testEvent("act-a1", "user-a", domain.ActivityAddedToList, base.Add(1*time.Minute))))
	require.NoError(t, s.CreateActivity(ctx, testEvent("act-b1", "user-b", domain.ActivityRated, base.Add(2*time.Minute))))
	require.NoError(t, s.CreateActivity(ctx, testEvent("act-a2", "user-a", domain.ActivityFavorited, base.Add(3*time.Minute))))
	require.NoError(t, s.CreateActivity(ctx, testEvent("act-c1", "user-c", domain.ActivityStatusUpdate, base.Add(4*time.Minute))))

	// Only the requested actors, merged newest first
	events, err := s.GetActivitiesByActors(ctx, []string{"user-a", "user-b"}, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, "act-a2", events[0].ID)
	require.Equal(t, "act-b1", events[1].ID)
	require.Equal(t, "act-a1", events[2].ID)

	// Limit applies after the merge
	capped, err := s.GetActivitiesByActors(ctx, []string{"user-a", "user-b"}, 2)
	require.NoError(t, err)
	require.Len(t, capped, 2)
	require.Equal(t, "act-a2", capped[0].ID)

	empty, err := s.GetActivitiesByActors(ctx, nil, 10)
	require.NoError(t, err)
	require.Empty(t, empty)
}
