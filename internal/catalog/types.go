package catalog

import (
	"github.com/reeltrackapp/reeltrack-server/internal/domain"
)

// TMDB wire media types. The API says "tv"; the rest of the application
// says "series", so the boundary translation lives here and nowhere else.
const (
	wireMovie  = "movie"
	wireTV     = "tv"
	wirePerson = "person"
)

// wireMediaType maps a domain media kind onto the TMDB path segment.
func wireMediaType(kind domain.MediaKind) string {
	if kind == domain.MediaKindSeries {
		return wireTV
	}
	return wireMovie
}

// kindFromWire maps a TMDB media_type onto the domain kind.
// Returns "" for types we do not track (people, collections).
func kindFromWire(mediaType string) domain.MediaKind {
	switch mediaType {
	case wireMovie:
		return domain.MediaKindMovie
	case wireTV:
		return domain.MediaKindSeries
	default:
		return ""
	}
}

// wireMedia is a raw TMDB result row. Movies carry title/release_date,
// series carry name/first_air_date; everything else is shared.
type wireMedia struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	GenreIDs     []int64 `json:"genre_ids"`
	Genres       []Genre `json:"genres"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int64   `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
}

// wirePage is a raw TMDB paginated response.
type wirePage struct {
	Page         int         `json:"page"`
	Results      []wireMedia `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// wireGenreList is the response shape of the genre list endpoints.
type wireGenreList struct {
	Genres []Genre `json:"genres"`
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Media is one catalog item normalized for the application: a single kind
// field, a single title, and a single release date regardless of whether
// TMDB called it a movie or a TV show.
type Media struct {
	TMDBID       int64            `json:"tmdb_id"`
	Kind         domain.MediaKind `json:"kind"`
	Title        string           `json:"title"`
	Overview     string           `json:"overview"`
	PosterPath   string           `json:"poster_path,omitempty"`
	PosterURL    string           `json:"poster_url"`
	BackdropPath string           `json:"backdrop_path,omitempty"`
	ReleaseDate  string           `json:"release_date,omitempty"`
	GenreIDs     []int64          `json:"genre_ids,omitempty"`
	Genres       []Genre          `json:"genres,omitempty"`
	VoteAverage  float64          `json:"vote_average"`
	VoteCount    int64            `json:"vote_count"`
	Popularity   float64          `json:"popularity"`
}

// Ref returns the catalog identity of the item.
func (m *Media) Ref() domain.MediaRef {
	return domain.MediaRef{TMDBID: m.TMDBID, Kind: m.Kind}
}

// Page is one page of catalog results.
type Page struct {
	Page         int      `json:"page"`
	Results      []*Media `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// toMedia normalizes a wire row. The kind argument overrides media_type for
// endpoints like /movie/popular whose rows omit it.
func (c *Client) toMedia(w *wireMedia, kind domain.MediaKind) *Media {
	if kind == "" {
		kind = kindFromWire(w.MediaType)
	}
	if kind == "" {
		return nil
	}

	title := w.Title
	release := w.ReleaseDate
	if kind == domain.MediaKindSeries {
		title = w.Name
		release = w.FirstAirDate
	}

	return &Media{
		TMDBID:       w.ID,
		Kind:         kind,
		Title:        title,
		Overview:     w.Overview,
		PosterPath:   w.PosterPath,
		PosterURL:    c.ImageURL(w.PosterPath, "w500"),
		BackdropPath: w.BackdropPath,
		ReleaseDate:  release,
		GenreIDs:     w.GenreIDs,
		Genres:       w.Genres,
		VoteAverage:  w.VoteAverage,
		VoteCount:    w.VoteCount,
		Popularity:   w.Popularity,
	}
}

// toPage normalizes a wire page, dropping rows of kinds we do not track.
func (c *Client) toPage(w *wirePage, kind domain.MediaKind) *Page {
	page := &Page{
		Page:         w.Page,
		Results:      make([]*Media, 0, len(w.Results)),
		TotalPages:   w.TotalPages,
		TotalResults: w.TotalResults,
	}
	for i := range w.Results {
		if m := c.toMedia(&w.Results[i], kind); m != nil {
			page.Results = append(page.Results, m)
		}
	}
	return page
}
