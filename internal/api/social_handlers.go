package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reeltrackapp/reeltrack-server/internal/http/response"
)

// handleFollow makes the caller follow the user in the URL.
func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Social.Follow(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, map[string]string{"message": "Following"}, s.logger)
}

// handleUnfollow removes the follow edge. Succeeds even if it never existed.
func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Social.Unfollow(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleIsFollowing reports whether the caller follows the user in the URL.
func (s *Server) handleIsFollowing(w http.ResponseWriter, r *http.Request) {
	following, err := s.services.Social.IsFollowing(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]bool{"following": following}, s.logger)
}

// handleGetFollowers lists the profiles following a user.
func (s *Server) handleGetFollowers(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.services.Social.Followers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, profiles, s.logger)
}

// handleGetFollowing lists the profiles a user follows.
func (s *Server) handleGetFollowing(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.services.Social.Following(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, profiles, s.logger)
}
