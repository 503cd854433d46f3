package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reeltrackapp/reeltrack-server/internal/http/response"
	"github.com/reeltrackapp/reeltrack-server/internal/service"
)

// handleGetCurrentUser returns the authenticated user's own account.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.services.Auth.GetUser(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, toUserResponse(user), s.logger)
}

// handleGetUserProfile returns another user's public profile.
func (s *Server) handleGetUserProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.services.Profile.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, profile, s.logger)
}

// handleUpdateProfile applies partial profile updates to the authenticated user.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateProfileRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	profile, err := s.services.Profile.UpdateProfile(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, profile, s.logger)
}

// handleSearchUsers searches user profiles by username, display name or bio.
func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	profiles, err := s.services.Social.SearchUsers(r.Context(), r.URL.Query().Get("query"), limit)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, profiles, s.logger)
}
