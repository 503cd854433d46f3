package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/reeltrackapp/reeltrack-server/internal/domain"
)

// Activity storage key prefixes.
// Uses inverted timestamps for descending order (newest first) during forward iteration.
const (
	activityPrefix        = "activity:"
	activityIdxTimePrefix = "activity:idx:time:"
	activityIdxUserPrefix = "activity:idx:user:"
)

// invertedTimestamp returns a string that sorts in descending order.
// Uses MaxInt64 - UnixNano so newest timestamps come first during forward iteration.
func invertedTimestamp(t time.Time) string {
	inverted := math.MaxInt64 - t.UnixNano()
	return fmt.Sprintf("%019d", inverted)
}

// CreateActivity stores a new activity event with all indexes in a single transaction.
func (s *Store) CreateActivity(ctx context.Context, event *domain.ActivityEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling activity event: %w", err)
	}

	invertedTS := invertedTimestamp(event.CreatedAt)

	return s.db.Update(func(txn *badger.Txn) error {
		// Primary key: activity:{id} → ActivityEvent JSON
		if err := txn.Set([]byte(activityPrefix+event.ID), data); err != nil {
			return fmt.Errorf("setting primary key: %w", err)
		}

		// Time index: activity:idx:time:{inverted_ts}:{id} → "" (key-only)
		timeKey := []byte(activityIdxTimePrefix + invertedTS + ":" + event.ID)
		if err := txn.Set(timeKey, []byte{}); err != nil {
			return fmt.Errorf("setting time index: %w", err)
		}

		// User index: activity:idx:user:{user_id}:{inverted_ts}:{id} → ""
		userKey := []byte(activityIdxUserPrefix + event.UserID + ":" + invertedTS + ":" + event.ID)
		if err := txn.Set(userKey, []byte{}); err != nil {
			return fmt.Errorf("setting user index: %w", err)
		}

		return nil
	})
}

// GetActivity retrieves a single activity event by ID.
func (s *Store) GetActivity(ctx context.Context, id string) (*domain.ActivityEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var event domain.ActivityEvent
	err := s.get([]byte(activityPrefix+id), &event)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("activity %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting activity %s: %w", id, err)
	}
	return &event, nil
}

// GetUserActivities retrieves one user's events sorted by CreatedAt descending.
func (s *Store) GetUserActivities(ctx context.Context, userID string, limit int) ([]*domain.ActivityEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var events []*domain.ActivityEvent
	indexPrefix := []byte(activityIdxUserPrefix + userID + ":")

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = indexPrefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(indexPrefix); it.ValidForPrefix(indexPrefix); it.Next() {
			if len(events) >= limit {
				break
			}

			id := extractActivityID(string(it.Item().Key()))
			if id == "" {
				continue
			}
			event, err := s.getActivityInTxn(txn, id)
			if err != nil {
				continue
			}
			events = append(events, event)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching user activities: %w", err)
	}
	return events, nil
}

// GetActivitiesByActors retrieves events from any of the given actors, merged
// newest-first across actors and capped at limit. Each actor's index is only
// scanned limit deep since deeper rows cannot survive the merge.
func (s *Store) GetActivitiesByActors(ctx context.Context, actorIDs []string, limit int) ([]*domain.ActivityEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(actorIDs) == 0 || limit <= 0 {
		return nil, nil
	}

	var events []*domain.ActivityEvent
	for _, actorID := range actorIDs {
		actorEvents, err := s.GetUserActivities(ctx, actorID, limit)
		if err != nil {
			return nil, err
		}
		events = append(events, actorEvents...)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// getActivityInTxn retrieves an activity event within an existing transaction.
func (s *Store) getActivityInTxn(txn *badger.Txn, id string) (*domain.ActivityEvent, error) {
	item, err := txn.Get([]byte(activityPrefix + id))
	if err != nil {
		return nil, err
	}

	var event domain.ActivityEvent
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &event)
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// extractActivityID pulls the trailing event ID out of an index key.
// IDs never contain the separator so the last segment is always the ID.
func extractActivityID(key string) string {
	i := strings.LastIndex(key, ":")
	if i < 0 || i == len(key)-1 {
		return ""
	}
	return key[i+1:]
}
