// Package catalog provides a TMDB API client for browsing movies and series.
package catalog

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/reeltrackapp/reeltrack-server/internal/errors"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p"
	defaultTimeout      = 10 * time.Second

	// PlaceholderPoster is served when the catalog has no artwork for an item.
	PlaceholderPoster = "/placeholder-poster.jpg"
)

// Config holds catalog client settings.
type Config struct {
	BaseURL      string
	ImageBaseURL string
	APIKey       string
	Timeout      time.Duration
}

// Client provides access to the TMDB API.
type Client struct {
	httpClient   *http.Client
	rateLimiter  *rate.Limiter
	logger       *slog.Logger
	baseURL      string
	imageBaseURL string
	apiKey       string
}

// NewClient creates a new TMDB client.
// TMDB allows roughly 50 requests per second; we stay well under that.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = defaultImageBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter:  rate.NewLimiter(rate.Limit(20), 40),
		logger:       logger,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		apiKey:       cfg.APIKey,
	}
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}

// get performs a GET against a TMDB endpoint and decodes the JSON response.
// Upstream failures are mapped onto the application error taxonomy so
// handlers can translate them to 502/504 without inspecting transport errors.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, dest any) error {
	if err := c.wait(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.CodeTimeout, "catalog rate limit wait")
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	c.logger.Debug("catalog request", "endpoint", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return apperrors.Wrap(err, apperrors.CodeTimeout, "catalog request timed out")
		}
		return apperrors.Wrap(err, apperrors.CodeUpstreamUnavailable, "catalog unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound("catalog item not found")
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.UpstreamUnavailable("catalog rejected API key")
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.UpstreamUnavailable("catalog rate limit exceeded")
	case resp.StatusCode >= 500:
		return apperrors.UpstreamUnavailable(fmt.Sprintf("catalog returned status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return apperrors.Internal(fmt.Sprintf("unexpected catalog status %d", resp.StatusCode))
	}

	if err := json.UnmarshalRead(resp.Body, dest); err != nil {
		return apperrors.Wrap(err, apperrors.CodeUpstreamUnavailable, "parse catalog response")
	}
	return nil
}

// isTimeout reports whether a transport error is a timeout.
func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ImageURL resolves a TMDB image path to a full URL at the given size.
// A nil or empty path yields the local placeholder artwork.
func (c *Client) ImageURL(path string, size string) string {
	if path == "" {
		return PlaceholderPoster
	}
	if size == "" {
		size = "w500"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.imageBaseURL + "/" + size + path
}
