package domain

import "time"

// ActivityKind represents the type of social activity.
type ActivityKind string

const (
	// ActivityAddedToList is recorded when a user adds media to their watch list.
	ActivityAddedToList ActivityKind = "added_to_list"

	// ActivityStatusUpdate is recorded when a user changes an entry's watch status.
	ActivityStatusUpdate ActivityKind = "status_update"

	// ActivityFavorited is recorded when a user favorites media.
	// Un-favoriting produces no activity.
	ActivityFavorited ActivityKind = "favorited"

	// ActivityRated is recorded when a user rates media.
	ActivityRated ActivityKind = "rated"

	// ActivityRemovedFromList is recorded when a user removes media from their list.
	ActivityRemovedFromList ActivityKind = "removed_from_list"
)

// ActivityMetadata carries the event-kind-specific values shown in feeds.
type ActivityMetadata struct {
	Status WatchStatus `json:"status,omitempty"`
	Rating int         `json:"rating,omitempty"`
}

// ActivityEvent is an append-only record of a user action.
// Events are immutable once created and are consumed by followers' feeds.
type ActivityEvent struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Kind      ActivityKind     `json:"kind"`
	TMDBID    int64            `json:"tmdb_id,omitempty"`
	MediaKind MediaKind        `json:"media_kind,omitempty"`
	Metadata  ActivityMetadata `json:"metadata"`
	CreatedAt time.Time        `json:"created_at"`
}

// Ref returns the catalog identity the event refers to, if any.
func (a *ActivityEvent) Ref() MediaRef {
	return MediaRef{TMDBID: a.TMDBID, Kind: a.MediaKind}
}

// HasMedia returns true if the event references a catalog item.
func (a *ActivityEvent) HasMedia() bool {
	return a.TMDBID != 0 && a.MediaKind != ""
}

// FeedItem is one activity event enriched for display: the actor's profile
// plus resolved catalog metadata. Title falls back to "Unknown" when the
// catalog lookup failed or the event carries no media.
type FeedItem struct {
	Event      *ActivityEvent `json:"event"`
	Actor      *Profile       `json:"actor"`
	MediaTitle string         `json:"media_title,omitempty"`
	PosterURL  string         `json:"poster_url,omitempty"`
	Text       string         `json:"text"`
}
