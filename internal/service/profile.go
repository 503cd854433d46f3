package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/reeltrackapp/reeltrack-server/internal/color"
	"github.com/reeltrackapp/reeltrack-server/internal/domain"
	domainerrors "github.com/reeltrackapp/reeltrack-server/internal/errors"
	"github.com/reeltrackapp/reeltrack-server/internal/search"
	"github.com/reeltrackapp/reeltrack-server/internal/store"
)

// ProfileService exposes public user profiles and owner-only profile edits.
type ProfileService struct {
	store     *store.Store
	userIndex *search.UserIndex
	logger    *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store *store.Store, userIndex *search.UserIndex, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:     store,
		userIndex: userIndex,
		logger:    logger,
	}
}

// GetProfile returns the public view of a user.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return profileOf(user), nil
}

// UpdateProfileRequest holds the owner-editable profile fields.
// Pointer fields distinguish "clear this" from "leave unchanged".
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=80"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url"`
}

// UpdateProfile applies profile edits for the owning user and reindexes them
// for search.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.Profile, error) {
	if userID == "" {
		return nil, domainerrors.Unauthorized("user id is required")
	}
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	user.Touch()

	if err := s.store.Users.Update(ctx, userID, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if err := s.userIndex.IndexUser(user); err != nil {
		s.logger.Warn("failed to reindex updated user", "user_id", userID, "error", err)
	}

	return profileOf(user), nil
}

// profileOf builds the public profile view of a user.
func profileOf(user *domain.User) *domain.Profile {
	return &domain.Profile{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.Name(),
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
		AvatarColor: color.ForUser(user.ID),
		JoinedAt:    user.CreatedAt,
	}
}
