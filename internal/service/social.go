package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/reeltrackapp/reeltrack-server/internal/domain"
	domainerrors "github.com/reeltrackapp/reeltrack-server/internal/errors"
	"github.com/reeltrackapp/reeltrack-server/internal/search"
	"github.com/reeltrackapp/reeltrack-server/internal/store"
)

// SocialService manages the follow graph and user discovery.
type SocialService struct {
	store     *store.Store
	userIndex *search.UserIndex
	profiles  *ProfileService
	logger    *slog.Logger
}

// NewSocialService creates a new social service.
func NewSocialService(store *store.Store, userIndex *search.UserIndex, profiles *ProfileService, logger *slog.Logger) *SocialService {
	return &SocialService{
		store:     store,
		userIndex: userIndex,
		profiles:  profiles,
		logger:    logger,
	}
}

// Follow records a follow edge from follower to followee.
// Self-follows are rejected; duplicate edges are a Conflict.
func (s *SocialService) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == "" {
		return domainerrors.Unauthorized("user id is required")
	}
	if followerID == followeeID {
		return domainerrors.Validation("cannot follow yourself")
	}

	// The followee must exist; dangling edges would poison feed builds
	if _, err := s.store.Users.Get(ctx, followeeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("get followee: %w", err)
	}

	edge := &domain.FollowEdge{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now(),
	}
	if err := s.store.CreateFollow(ctx, edge); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domainerrors.Conflict("already following this user")
		}
		return fmt.Errorf("create follow: %w", err)
	}

	s.logger.Info("follow created", "follower_id", followerID, "followee_id", followeeID)
	return nil
}

// Unfollow removes a follow edge. Unfollowing someone not followed is a no-op.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if followerID == "" {
		return domainerrors.Unauthorized("user id is required")
	}
	if err := s.store.DeleteFollow(ctx, followerID, followeeID); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

// IsFollowing reports whether follower follows followee.
func (s *SocialService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.store.IsFollowing(ctx, followerID, followeeID)
}

// Followers returns the profiles of users following the given user.
func (s *SocialService) Followers(ctx context.Context, userID string) ([]*domain.Profile, error) {
	ids, err := s.store.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list follower ids: %w", err)
	}
	return s.profilesByIDs(ctx, ids)
}

// Following returns the profiles of users the given user follows.
func (s *SocialService) Following(ctx context.Context, userID string) ([]*domain.Profile, error) {
	ids, err := s.store.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list following ids: %w", err)
	}
	return s.profilesByIDs(ctx, ids)
}

// profilesByIDs joins edge endpoints to profiles, skipping users deleted
// since the edge was written.
func (s *SocialService) profilesByIDs(ctx context.Context, ids []string) ([]*domain.Profile, error) {
	profiles := make([]*domain.Profile, 0, len(ids))
	for _, userID := range ids {
		profile, err := s.profiles.GetProfile(ctx, userID)
		if err != nil {
			if domainerrors.Is(err, domainerrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// SearchUsers finds users by username or display name through the search index.
func (s *SocialService) SearchUsers(ctx context.Context, query string, limit int) ([]*domain.Profile, error) {
	if query == "" {
		return nil, domainerrors.Validation("query must not be empty")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	result, err := s.userIndex.Search(ctx, query, limit, 0)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	profiles := make([]*domain.Profile, 0, len(result.Hits))
	for _, hit := range result.Hits {
		profile, err := s.profiles.GetProfile(ctx, hit.ID)
		if err != nil {
			// Index can lag deletes; skip stale hits
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}
