package model

import "time"

// Relationship is a directed follow edge: Follower receives Followed's posts
// in their feed. The pair is unique.
type Relationship struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"not null;uniqueIndex:idx_relationships_pair,priority:1"`
	FollowedID uint      `json:"followed_id" gorm:"not null;index;uniqueIndex:idx_relationships_pair,priority:2"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
