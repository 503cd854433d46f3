package api

import (
	"net/http"
	"strconv"

	"github.com/reeltrackapp/reeltrack-server/internal/catalog"
	"github.com/reeltrackapp/reeltrack-server/internal/http/response"
)

// handleCatalogSearch searches movies and series by title.
func (s *Server) handleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	page, err := s.catalog.SearchMulti(r.Context(), r.URL.Query().Get("query"), pageParam(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}

// handleCatalogTrending returns trending media for the day or week window.
func (s *Server) handleCatalogTrending(w http.ResponseWriter, r *http.Request) {
	window := catalog.TrendingWindow(r.URL.Query().Get("window"))

	page, err := s.catalog.GetTrending(r.Context(), window)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}

// handlePopularMovies returns the current popular movies page.
func (s *Server) handlePopularMovies(w http.ResponseWriter, r *http.Request) {
	page, err := s.catalog.GetPopularMovies(r.Context(), pageParam(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}

// handlePopularSeries returns the current popular series page.
func (s *Server) handlePopularSeries(w http.ResponseWriter, r *http.Request) {
	page, err := s.catalog.GetPopularSeries(r.Context(), pageParam(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}

// handleGenres lists catalog genres for a media kind.
func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromURL(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	genres, err := s.catalog.GetGenres(r.Context(), kind)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, genres, s.logger)
}

// handleDiscover lists media of a kind filtered by genre.
func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromURL(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	genreID, err := strconv.ParseInt(r.URL.Query().Get("genre"), 10, 64)
	if err != nil || genreID <= 0 {
		response.BadRequest(w, "genre must be a positive integer", s.logger)
		return
	}

	page, err := s.catalog.DiscoverByGenre(r.Context(), kind, genreID, pageParam(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}

// handleMediaDetails returns full catalog details for one movie or series.
func (s *Server) handleMediaDetails(w http.ResponseWriter, r *http.Request) {
	ref, err := mediaRefFromURL(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	media, err := s.catalog.GetMediaDetails(r.Context(), ref)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, media, s.logger)
}
