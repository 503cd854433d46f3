package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reeltrackapp/reeltrack-server/internal/domain"
	"github.com/reeltrackapp/reeltrack-server/internal/http/response"
)

// EntryResponse pairs a list entry with the activity event the mutation produced.
// Event is nil for mutations that don't generate one.
type EntryResponse struct {
	Entry *domain.ListEntry     `json:"entry"`
	Event *domain.ActivityEvent `json:"event,omitempty"`
}

// addToListRequest is the request body for adding media to the watch list.
type addToListRequest struct {
	TMDBID int64              `json:"tmdb_id"`
	Kind   domain.MediaKind   `json:"kind"`
	Status domain.WatchStatus `json:"status,omitempty"`
}

// handleAddToList adds a catalog item to the caller's watch list.
func (s *Server) handleAddToList(w http.ResponseWriter, r *http.Request) {
	var req addToListRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	ref := domain.MediaRef{TMDBID: req.TMDBID, Kind: req.Kind}
	entry, event, err := s.services.Watchlist.AddToList(r.Context(), getUserID(r.Context()), ref, req.Status)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, EntryResponse{Entry: entry, Event: event}, s.logger)
}

// statusRequest is the request body for a status change.
type statusRequest struct {
	Status domain.WatchStatus `json:"status"`
}

// handleUpdateStatus moves an existing entry to a new watch status.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ref, err := mediaRefFromURL(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var req statusRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, event, err := s.services.Watchlist.UpdateStatus(r.Context(), getUserID(r.Context()), ref, req.Status)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, EntryResponse{Entry: entry, Event: event}, s.logger)
}

// handleToggleFavorite flips the favorite flag, creating the entry if needed.
func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ref, err := mediaRefFromURL(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	entry, event, err := s.services.Watchlist.ToggleFavorite(r.Context(), getUserID(r.Context()), ref)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, EntryResponse{Entry: entry, Event: event}, s.logger)
}

// ratingRequest is the request body for rating media.
type ratingRequest struct {
	Rating int `json:"rating"`
}

// handleRateMedia sets a 1-10 rating, creating the entry if needed.
func (s *Server) handleRateMedia(w http.ResponseWriter, r *http.Request) {
	ref, err := mediaRefFromURL(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var req ratingRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, event, err := s.services.Watchlist.RateMedia(r.Context(), getUserID(r.Context()), ref, req.Rating)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, EntryResponse{Entry: entry, Event: event}, s.logger)
}

// progressRequest is the request body for updating series progress.
type progressRequest struct {
	Season  int `json:"season"`
	Episode int `json:"episode"`
}

// handleSetProgress updates the season/episode position on an existing entry.
func (s *Server) handleSetProgress(w http.ResponseWriter, r *http.Request) {
	ref, err := mediaRefFromURL(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var req progressRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, err := s.services.Watchlist.SetProgress(r.Context(), getUserID(r.Context()), ref, req.Season, req.Episode)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, EntryResponse{Entry: entry}, s.logger)
}

// handleRemoveFromList deletes an entry from the caller's watch list.
func (s *Server) handleRemoveFromList(w http.ResponseWriter, r *http.Request) {
	ref, err := mediaRefFromURL(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	event, err := s.services.Watchlist.RemoveFromList(r.Context(), getUserID(r.Context()), ref)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{"event": event}, s.logger)
}

// handleGetEntry returns one entry from the caller's watch list.
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	ref, err := mediaRefFromURL(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	entry, err := s.services.Watchlist.GetEntry(r.Context(), getUserID(r.Context()), ref)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entry, s.logger)
}

// handleGetOwnList returns the caller's watch list, optionally filtered.
func (s *Server) handleGetOwnList(w http.ResponseWriter, r *http.Request) {
	s.writeList(w, r, getUserID(r.Context()))
}

// handleGetUserList returns another user's watch list.
func (s *Server) handleGetUserList(w http.ResponseWriter, r *http.Request) {
	s.writeList(w, r, chi.URLParam(r, "id"))
}

func (s *Server) writeList(w http.ResponseWriter, r *http.Request, userID string) {
	status := domain.WatchStatus(r.URL.Query().Get("status"))

	entries, err := s.services.Watchlist.ListFor(r.Context(), userID, status, boolParam(r, "favorites"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"entries": entries,
		"count":   len(entries),
	}, s.logger)
}
