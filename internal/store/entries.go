package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"github.com/reeltrackapp/reeltrack-server/internal/domain"
)

// List entry storage keys.
// One entry per (user, kind, tmdb id) slot; upserts overwrite in place.
const entryPrefix = "entry:"

func entryKey(userID string, ref domain.MediaRef) []byte {
	return []byte(entryPrefix + userID + ":" + string(ref.Kind) + ":" + strconv.FormatInt(ref.TMDBID, 10))
}

// PutEntry creates or replaces a list entry at its (user, media) slot.
func (s *Store) PutEntry(ctx context.Context, entry *domain.ListEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.set(entryKey(entry.UserID, entry.Ref()), entry); err != nil {
		return fmt.Errorf("putting list entry: %w", err)
	}
	return nil
}

// GetEntry retrieves a user's entry for a catalog item.
// Returns ErrNotFound if the user is not tracking the item.
func (s *Store) GetEntry(ctx context.Context, userID string, ref domain.MediaRef) (*domain.ListEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entry domain.ListEntry
	err := s.get(entryKey(userID, ref), &entry)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting list entry: %w", err)
	}
	return &entry, nil
}

// DeleteEntry removes a user's entry for a catalog item.
// Returns ErrNotFound if no entry exists at the slot.
func (s *Store) DeleteEntry(ctx context.Context, userID string, ref domain.MediaRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := entryKey(userID, ref)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("checking list entry: %w", err)
		}
		return txn.Delete(key)
	})
}

// ListEntries returns all of a user's entries, newest activity first.
// When status is non-empty only entries with that watch status are returned;
// favoritesOnly further restricts the result to favorited entries.
func (s *Store) ListEntries(ctx context.Context, userID string, status domain.WatchStatus, favoritesOnly bool) ([]*domain.ListEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(entryPrefix + userID + ":")
	var entries []*domain.ListEntry

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var entry domain.ListEntry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return fmt.Errorf("unmarshaling list entry: %w", err)
			}

			if status != "" && entry.Status != status {
				continue
			}
			if favoritesOnly && !entry.Favorite {
				continue
			}
			entries = append(entries, &entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing entries for user %s: %w", userID, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	return entries, nil
}

// CountEntries returns how many items a user is tracking.
func (s *Store) CountEntries(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	prefix := []byte(entryPrefix + userID + ":")
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("counting entries for user %s: %w", userID, err)
	}
	return count, nil
}
