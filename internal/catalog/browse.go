package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/reeltrackapp/reeltrack-server/internal/domain"
	apperrors "github.com/reeltrackapp/reeltrack-server/internal/errors"
)

// TrendingWindow selects the trending aggregation period.
type TrendingWindow string

const (
	TrendingDay  TrendingWindow = "day"
	TrendingWeek TrendingWindow = "week"
)

// SearchMulti searches movies and series by title in a single query.
// People and other non-media result rows are filtered out.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*Page, error) {
	if query == "" {
		return nil, apperrors.Validation("search query must not be empty")
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(normalizePage(page)))

	var resp wirePage
	if err := c.get(ctx, "/search/multi", params, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return c.toPage(&resp, ""), nil
}

// GetTrending returns trending movies and series for the given window.
// Defaults to the weekly window.
func (c *Client) GetTrending(ctx context.Context, window TrendingWindow) (*Page, error) {
	if window != TrendingDay {
		window = TrendingWeek
	}

	var resp wirePage
	if err := c.get(ctx, "/trending/all/"+string(window), nil, &resp); err != nil {
		return nil, fmt.Errorf("trending %s: %w", window, err)
	}
	return c.toPage(&resp, ""), nil
}

// GetPopularMovies returns a page of popular movies.
func (c *Client) GetPopularMovies(ctx context.Context, page int) (*Page, error) {
	return c.popular(ctx, domain.MediaKindMovie, page)
}

// GetPopularSeries returns a page of popular series.
func (c *Client) GetPopularSeries(ctx context.Context, page int) (*Page, error) {
	return c.popular(ctx, domain.MediaKindSeries, page)
}

func (c *Client) popular(ctx context.Context, kind domain.MediaKind, page int) (*Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(normalizePage(page)))

	var resp wirePage
	if err := c.get(ctx, "/"+wireMediaType(kind)+"/popular", params, &resp); err != nil {
		return nil, fmt.Errorf("popular %s: %w", kind, err)
	}
	return c.toPage(&resp, kind), nil
}

// GetGenres returns the genre catalog for one media kind.
func (c *Client) GetGenres(ctx context.Context, kind domain.MediaKind) ([]Genre, error) {
	if !kind.Valid() {
		return nil, apperrors.Validationf("invalid media kind %q", kind)
	}

	var resp wireGenreList
	if err := c.get(ctx, "/genre/"+wireMediaType(kind)+"/list", nil, &resp); err != nil {
		return nil, fmt.Errorf("genres %s: %w", kind, err)
	}
	return resp.Genres, nil
}

// DiscoverByGenre returns a page of one media kind filtered by genre.
func (c *Client) DiscoverByGenre(ctx context.Context, kind domain.MediaKind, genreID int64, page int) (*Page, error) {
	if !kind.Valid() {
		return nil, apperrors.Validationf("invalid media kind %q", kind)
	}

	params := url.Values{}
	params.Set("with_genres", strconv.FormatInt(genreID, 10))
	params.Set("page", strconv.Itoa(normalizePage(page)))

	var resp wirePage
	if err := c.get(ctx, "/discover/"+wireMediaType(kind), params, &resp); err != nil {
		return nil, fmt.Errorf("discover %s genre %d: %w", kind, genreID, err)
	}
	return c.toPage(&resp, kind), nil
}

// GetMediaDetails returns full details for one catalog item.
// Detail rows omit media_type, so the requested kind is stamped back on.
func (c *Client) GetMediaDetails(ctx context.Context, ref domain.MediaRef) (*Media, error) {
	if !ref.Kind.Valid() {
		return nil, apperrors.Validationf("invalid media kind %q", ref.Kind)
	}

	var resp wireMedia
	endpoint := "/" + wireMediaType(ref.Kind) + "/" + strconv.FormatInt(ref.TMDBID, 10)
	if err := c.get(ctx, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("details %s/%d: %w", ref.Kind, ref.TMDBID, err)
	}
	return c.toMedia(&resp, ref.Kind), nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
