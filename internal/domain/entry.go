package domain

import "time"

// WatchStatus represents where a list entry sits in the user's watch cycle.
type WatchStatus string

const (
	// StatusToWatch marks media the user plans to watch.
	StatusToWatch WatchStatus = "to_watch"
	// StatusWatching marks media the user is currently watching.
	StatusWatching WatchStatus = "watching"
	// StatusWatched marks media the user has finished.
	StatusWatched WatchStatus = "watched"
)

// Valid checks if the status is a known watch status.
func (s WatchStatus) Valid() bool {
	switch s {
	case StatusToWatch, StatusWatching, StatusWatched:
		return true
	default:
		return false
	}
}

// ListEntry is a user's tracked relationship to one catalog item.
// At most one entry exists per (user, catalog item) slot; mutations
// update the entry in place rather than creating siblings.
type ListEntry struct {
	UserID         string      `json:"user_id"`
	TMDBID         int64       `json:"tmdb_id"`
	Kind           MediaKind   `json:"kind"`
	Status         WatchStatus `json:"status"`
	Favorite       bool        `json:"favorite"`
	Rating         int         `json:"rating,omitempty"` // 1-10, 0 = unrated
	CurrentSeason  int         `json:"current_season,omitempty"`
	CurrentEpisode int         `json:"current_episode,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Ref returns the catalog identity of the entry.
func (e *ListEntry) Ref() MediaRef {
	return MediaRef{TMDBID: e.TMDBID, Kind: e.Kind}
}

// Touch updates the UpdatedAt timestamp to the current time.
func (e *ListEntry) Touch() {
	e.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (e *ListEntry) InitTimestamps() {
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
}
