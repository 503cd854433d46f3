package domain

import "time"

// FollowEdge is a directed social relationship: follower sees followee's activity.
// Unique per ordered (follower, followee) pair.
type FollowEdge struct {
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
