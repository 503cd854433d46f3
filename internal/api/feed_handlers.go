package api

import (
	"net/http"

	"github.com/reeltrackapp/reeltrack-server/internal/http/response"
)

// handleGetFeed returns the enriched activity feed of the users the caller follows.
func (s *Server) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	items, err := s.services.Feed.BuildFeed(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"items": items,
		"count": len(items),
	}, s.logger)
}
