package models

import "time"

// Follow is a directed follow edge. The composite unique index guarantees
// at most one edge per ordered (follower, following) pair; a race between
// two identical follow requests leaves the loser with a duplicate-key error
// rather than a second edge.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}
