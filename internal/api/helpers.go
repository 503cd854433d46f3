package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reeltrackapp/reeltrack-server/internal/domain"
	domainerrors "github.com/reeltrackapp/reeltrack-server/internal/errors"
)

// mediaRefFromURL parses the {kind}/{id} URL segments into a media ref.
func mediaRefFromURL(r *http.Request) (domain.MediaRef, error) {
	kind := domain.MediaKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		return domain.MediaRef{}, domainerrors.Validationf("unknown media kind %q", chi.URLParam(r, "kind"))
	}

	tmdbID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || tmdbID <= 0 {
		return domain.MediaRef{}, domainerrors.Validation("media id must be a positive integer")
	}

	return domain.MediaRef{TMDBID: tmdbID, Kind: kind}, nil
}

// kindFromURL parses just the {kind} URL segment.
func kindFromURL(r *http.Request) (domain.MediaKind, error) {
	kind := domain.MediaKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		return "", domainerrors.Validationf("unknown media kind %q", chi.URLParam(r, "kind"))
	}
	return kind, nil
}

// pageParam parses the ?page= query parameter, defaulting to 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// boolParam parses a query parameter as a boolean, defaulting to false.
func boolParam(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}
