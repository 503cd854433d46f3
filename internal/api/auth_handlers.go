package api

import (
	"encoding/json/v2"
	"net/http"
	"time"

	"github.com/reeltrackapp/reeltrack-server/internal/domain"
	"github.com/reeltrackapp/reeltrack-server/internal/http/response"
	"github.com/reeltrackapp/reeltrack-server/internal/service"
)

// UserResponse is the API view of a user account, without credentials.
type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthResult is the API view of a successful authentication.
type AuthResult struct {
	User UserResponse `json:"user"`
	service.SessionResponse
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	}
}

func toAuthResult(resp *service.AuthResponse) AuthResult {
	return AuthResult{
		User:            toUserResponse(resp.User),
		SessionResponse: resp.SessionResponse,
	}
}

// handleRegister creates a new account and returns tokens for it.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	req.IPAddress = r.RemoteAddr

	resp, err := s.services.Auth.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, toAuthResult(resp), s.logger)
}

// handleLogin authenticates a user and returns access and refresh tokens.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	req.IPAddress = r.RemoteAddr

	resp, err := s.services.Auth.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, toAuthResult(resp), s.logger)
}

// handleRefresh exchanges a refresh token for fresh tokens.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req service.RefreshRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	req.IPAddress = r.RemoteAddr

	resp, err := s.services.Auth.Refresh(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, toAuthResult(resp), s.logger)
}

// logoutRequest is the request body for logout.
type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// handleLogout revokes the session owning the given refresh token.
// Succeeds even if the token is already gone.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.services.Auth.Logout(r.Context(), req.RefreshToken); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{"message": "Logged out"}, s.logger)
}
