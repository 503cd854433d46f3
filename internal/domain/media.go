package domain

// MediaKind represents the kind of catalog media being tracked.
type MediaKind string

const (
	// MediaKindMovie is a feature film.
	MediaKindMovie MediaKind = "movie"
	// MediaKindSeries is an episodic TV series.
	MediaKindSeries MediaKind = "series"
)

// Valid checks if the kind is one we track.
func (k MediaKind) Valid() bool {
	switch k {
	case MediaKindMovie, MediaKindSeries:
		return true
	default:
		return false
	}
}

// MediaRef identifies one catalog item: the external catalog ID plus the kind.
// Catalog IDs are only unique within a kind, so the pair is the identity.
type MediaRef struct {
	TMDBID int64     `json:"tmdb_id"`
	Kind   MediaKind `json:"kind"`
}

// IsZero returns true if the ref does not point at any catalog item.
func (r MediaRef) IsZero() bool {
	return r.TMDBID == 0 && r.Kind == ""
}
