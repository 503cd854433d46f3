package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/reeltrackapp/reeltrack-server/internal/domain"
	domainerrors "github.com/reeltrackapp/reeltrack-server/internal/errors"
	"github.com/reeltrackapp/reeltrack-server/internal/id"
	"github.com/reeltrackapp/reeltrack-server/internal/store"
)

// WatchlistService manages users' tracked media and the activity events
// their mutations produce. Every entry write and its event are appended in
// strict pairing: no event without the write having succeeded first.
type WatchlistService struct {
	store  *store.Store
	logger *slog.Logger

	// mirror holds a per-user in-memory copy of the list, reconciled only
	// after a confirmed store write. The store remains the system of record;
	// the mirror exists for cheap membership and status reads.
	mu     sync.RWMutex
	mirror map[string][]*domain.ListEntry
}

// NewWatchlistService creates a new watch list service.
func NewWatchlistService(store *store.Store, logger *slog.Logger) *WatchlistService {
	return &WatchlistService{
		store:  store,
		logger: logger,
		mirror: make(map[string][]*domain.ListEntry),
	}
}

func validateListArgs(userID string, ref domain.MediaRef) error {
	if userID == "" {
		return domainerrors.Unauthorized("user id is required")
	}
	if ref.TMDBID <= 0 {
		return domainerrors.Validation("tmdb_id must be positive")
	}
	if !ref.Kind.Valid() {
		return domainerrors.Validationf("invalid media kind %q", ref.Kind)
	}
	return nil
}

// AddToList adds media to the user's list, or overwrites the status of an
// existing entry. Status defaults to to_watch. Emits one added_to_list event.
func (s *WatchlistService) AddToList(ctx context.Context, userID string, ref domain.MediaRef, status domain.WatchStatus) (*domain.ListEntry, *domain.ActivityEvent, error) {
	if err := validateListArgs(userID, ref); err != nil {
		return nil, nil, err
	}
	if status == "" {
		status = domain.StatusToWatch
	}
	if !status.Valid() {
		return nil, nil, domainerrors.Validationf("invalid status %q", status)
	}

	entry, err := s.store.GetEntry(ctx, userID, ref)
	switch {
	case err == nil:
		entry.Status = status
		entry.Touch()
	case errors.Is(err, store.ErrNotFound):
		entry = &domain.ListEntry{
			UserID: userID,
			TMDBID: ref.TMDBID,
			Kind:   ref.Kind,
			Status: status,
		}
		entry.InitTimestamps()
	default:
		return nil, nil, fmt.Errorf("get entry: %w", err)
	}

	if err := s.store.PutEntry(ctx, entry); err != nil {
		return nil, nil, fmt.Errorf("put entry: %w", err)
	}

	event, err := s.recordEvent(ctx, userID, domain.ActivityAddedToList, ref, domain.ActivityMetadata{Status: status})
	if err != nil {
		return nil, nil, err
	}

	s.reconcile(userID, entry)
	return entry, event, nil
}

// UpdateStatus changes the watch status of an existing entry.
// Returns NotFound if the user is not tracking the item.
func (s *WatchlistService) UpdateStatus(ctx context.Context, userID string, ref domain.MediaRef, status domain.WatchStatus) (*domain.ListEntry, *domain.ActivityEvent, error) {
	if err := validateListArgs(userID, ref); err != nil {
		return nil, nil, err
	}
	if !status.Valid() {
		return nil, nil, domainerrors.Validationf("invalid status %q", status)
	}

	entry, err := s.store.GetEntry(ctx, userID, ref)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.NotFound("entry not found")
		}
		return nil, nil, fmt.Errorf("get entry: %w", err)
	}

	entry.Status = status
	entry.Touch()
	if err := s.store.PutEntry(ctx, entry); err != nil {
		return nil, nil, fmt.Errorf("put entry: %w", err)
	}

	event, err := s.recordEvent(ctx, userID, domain.ActivityStatusUpdate, ref, domain.ActivityMetadata{Status: status})
	if err != nil {
		return nil, nil, err
	}

	s.reconcile(userID, entry)
	return entry, event, nil
}

// ToggleFavorite flips the favorite flag. Toggling an untracked item first
// synthesizes a to_watch entry so no row is ever statusless. An event is
// emitted only when the flag turns on; un-favoriting is silent.
func (s *WatchlistService) ToggleFavorite(ctx context.Context, userID string, ref domain.MediaRef) (*domain.ListEntry, *domain.ActivityEvent, error) {
	if err := validateListArgs(userID, ref); err != nil {
		return nil, nil, err
	}

	entry, err := s.store.GetEntry(ctx, userID, ref)
	switch {
	case err == nil:
		entry.Favorite = !entry.Favorite
		entry.Touch()
	case errors.Is(err, store.ErrNotFound):
		entry = &domain.ListEntry{
			UserID:   userID,
			TMDBID:   ref.TMDBID,
			Kind:     ref.Kind,
			Status:   domain.StatusToWatch,
			Favorite: true,
		}
		entry.InitTimestamps()
	default:
		return nil, nil, fmt.Errorf("get entry: %w", err)
	}

	if err := s.store.PutEntry(ctx, entry); err != nil {
		return nil, nil, fmt.Errorf("put entry: %w", err)
	}

	var event *domain.ActivityEvent
	if entry.Favorite {
		event, err = s.recordEvent(ctx, userID, domain.ActivityFavorited, ref, domain.ActivityMetadata{})
		if err != nil {
			return nil, nil, err
		}
	}

	s.reconcile(userID, entry)
	return entry, event, nil
}

// RateMedia sets a 1-10 rating, synthesizing a to_watch entry for untracked
// items. Emits a rated event carrying the rating.
func (s *WatchlistService) RateMedia(ctx context.Context, userID string, ref domain.MediaRef, rating int) (*domain.ListEntry, *domain.ActivityEvent, error) {
	if err := validateListArgs(userID, ref); err != nil {
		return nil, nil, err
	}
	if rating < 1 || rating > 10 {
		return nil, nil, domainerrors.Validation("rating must be between 1 and 10")
	}

	entry, err := s.store.GetEntry(ctx, userID, ref)
	switch {
	case err == nil:
		entry.Rating = rating
		entry.Touch()
	case errors.Is(err, store.ErrNotFound):
		entry = &domain.ListEntry{
			UserID: userID,
			TMDBID: ref.TMDBID,
			Kind:   ref.Kind,
			Status: domain.StatusToWatch,
			Rating: rating,
		}
		entry.InitTimestamps()
	default:
		return nil, nil, fmt.Errorf("get entry: %w", err)
	}

	if err := s.store.PutEntry(ctx, entry); err != nil {
		return nil, nil, fmt.Errorf("put entry: %w", err)
	}

	event, err := s.recordEvent(ctx, userID, domain.ActivityRated, ref, domain.ActivityMetadata{Rating: rating})
	if err != nil {
		return nil, nil, err
	}

	s.reconcile(userID, entry)
	return entry, event, nil
}

// SetProgress records season and episode counters for a series entry.
// Progress changes produce no activity event.
func (s *WatchlistService) SetProgress(ctx context.Context, userID string, ref domain.MediaRef, season, episode int) (*domain.ListEntry, error) {
	if err := validateListArgs(userID, ref); err != nil {
		return nil, err
	}
	if season < 0 || episode < 0 {
		return nil, domainerrors.Validation("season and episode must not be negative")
	}

	entry, err := s.store.GetEntry(ctx, userID, ref)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("entry not found")
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	entry.CurrentSeason = season
	entry.CurrentEpisode = episode
	entry.Touch()
	if err := s.store.PutEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("put entry: %w", err)
	}

	s.reconcile(userID, entry)
	return entry, nil
}

// RemoveFromList deletes the user's entry for a catalog item.
// Returns NotFound (and emits nothing) if the item is not tracked.
func (s *WatchlistService) RemoveFromList(ctx context.Context, userID string, ref domain.MediaRef) (*domain.ActivityEvent, error) {
	if err := validateListArgs(userID, ref); err != nil {
		return nil, err
	}

	if err := s.store.DeleteEntry(ctx, userID, ref); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("entry not found")
		}
		return nil, fmt.Errorf("delete entry: %w", err)
	}

	event, err := s.recordEvent(ctx, userID, domain.ActivityRemovedFromList, ref, domain.ActivityMetadata{})
	if err != nil {
		return nil, err
	}

	s.removeFromMirror(userID, ref)
	return event, nil
}

// ListFor returns the user's entries from the store, most recently updated
// first, optionally filtered by status.
func (s *WatchlistService) ListFor(ctx context.Context, userID string, status domain.WatchStatus, favoritesOnly bool) ([]*domain.ListEntry, error) {
	if userID == "" {
		return nil, domainerrors.Unauthorized("user id is required")
	}
	if status != "" && !status.Valid() {
		return nil, domainerrors.Validationf("invalid status %q", status)
	}

	entries, err := s.store.ListEntries(ctx, userID, status, favoritesOnly)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	s.mu.Lock()
	s.mirror[userID] = slices.Clone(entries)
	s.mu.Unlock()

	return entries, nil
}

// GetEntry returns the user's entry for one catalog item.
func (s *WatchlistService) GetEntry(ctx context.Context, userID string, ref domain.MediaRef) (*domain.ListEntry, error) {
	if err := validateListArgs(userID, ref); err != nil {
		return nil, err
	}

	entry, err := s.store.GetEntry(ctx, userID, ref)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("entry not found")
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// MirrorFor returns the in-memory mirror of a user's list. The mirror is
// only as fresh as the last ListFor or mutation; callers needing the system
// of record use ListFor.
func (s *WatchlistService) MirrorFor(userID string) []*domain.ListEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.mirror[userID])
}

// recordEvent appends one activity event for a confirmed entry write.
func (s *WatchlistService) recordEvent(ctx context.Context, userID string, kind domain.ActivityKind, ref domain.MediaRef, meta domain.ActivityMetadata) (*domain.ActivityEvent, error) {
	eventID, err := id.Generate("act")
	if err != nil {
		return nil, fmt.Errorf("generate event ID: %w", err)
	}

	event := &domain.ActivityEvent{
		ID:        eventID,
		UserID:    userID,
		Kind:      kind,
		TMDBID:    ref.TMDBID,
		MediaKind: ref.Kind,
		Metadata:  meta,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateActivity(ctx, event); err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}

	s.logger.Debug("activity recorded",
		"user_id", userID,
		"kind", kind,
		"tmdb_id", ref.TMDBID,
	)
	return event, nil
}

// reconcile folds a written entry into the user's mirror: replace in place
// when the (tmdbID, kind) key exists, append otherwise. At most one mirror
// entry ever holds a given key.
func (s *WatchlistService) reconcile(userID string, entry *domain.ListEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.mirror[userID]
	for i, e := range entries {
		if e.TMDBID == entry.TMDBID && e.Kind == entry.Kind {
			entries[i] = entry
			return
		}
	}
	s.mirror[userID] = append(entries, entry)
}

// removeFromMirror filters an entry key out of the user's mirror.
func (s *WatchlistService) removeFromMirror(userID string, ref domain.MediaRef) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.mirror[userID]
	s.mirror[userID] = slices.DeleteFunc(entries, func(e *domain.ListEntry) bool {
		return e.TMDBID == ref.TMDBID && e.Kind == ref.Kind
	})
}
