package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/reeltrackapp/reeltrack-server/internal/domain"
)

// Follow storage keys.
// The forward key holds the edge JSON; the reverse key is key-only and
// exists so followers of a user can be scanned without a full sweep.
const (
	followPrefix    = "follow:"
	followRevPrefix = "follow:rev:"
)

func followKey(followerID, followeeID string) []byte {
	return []byte(followPrefix + followerID + ":" + followeeID)
}

func followRevKey(followeeID, followerID string) []byte {
	return []byte(followRevPrefix + followeeID + ":" + followerID)
}

// CreateFollow records a directed follow edge.
// Returns ErrAlreadyExists if the edge is already present.
func (s *Store) CreateFollow(ctx context.Context, edge *domain.FollowEdge) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(edge)
	if err != nil {
		return fmt.Errorf("marshaling follow edge: %w", err)
	}

	key := followKey(edge.FollowerID, edge.FolloweeID)

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("checking follow edge: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("setting follow edge: %w", err)
		}
		if err := txn.Set(followRevKey(edge.FolloweeID, edge.FollowerID), []byte{}); err != nil {
			return fmt.Errorf("setting reverse follow index: %w", err)
		}
		return nil
	})
}

// DeleteFollow removes a follow edge. Deleting an absent edge is a no-op.
func (s *Store) DeleteFollow(ctx context.Context, followerID, followeeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(followKey(followerID, followeeID)); err != nil {
			return fmt.Errorf("deleting follow edge: %w", err)
		}
		if err := txn.Delete(followRevKey(followeeID, followerID)); err != nil {
			return fmt.Errorf("deleting reverse follow index: %w", err)
		}
		return nil
	})
}

// IsFollowing reports whether follower follows followee.
func (s *Store) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.exists(followKey(followerID, followeeID))
}

// FollowingIDs returns the IDs of every user the given user follows.
func (s *Store) FollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := followPrefix + followerID + ":"
	ids, err := s.scanSuffixes([]byte(prefix), len(prefix))
	if err != nil {
		return nil, fmt.Errorf("listing following for %s: %w", followerID, err)
	}
	return ids, nil
}

// FollowerIDs returns the IDs of every user following the given user.
func (s *Store) FollowerIDs(ctx context.Context, followeeID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := followRevPrefix + followeeID + ":"
	ids, err := s.scanSuffixes([]byte(prefix), len(prefix))
	if err != nil {
		return nil, fmt.Errorf("listing followers for %s: %w", followeeID, err)
	}
	return ids, nil
}

// scanSuffixes collects the key remainder after a prefix for every key
// under that prefix. Keys containing the forward prefix separator are
// skipped so follow:rev: entries never leak into forward scans.
func (s *Store) scanSuffixes(prefix []byte, cut int) ([]string, error) {
	var out []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			suffix := string(it.Item().Key())[cut:]
			if strings.Contains(suffix, ":") {
				continue
			}
			out = append(out, suffix)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
