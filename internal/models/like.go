package models

import "time"

// Like is a like on a post. The composite unique index guarantees at most
// one like per (user, post) pair even under concurrent toggles.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_like"`
	PostID    uint      `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_like"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeRequest defines the request body for liking or unliking a post.
type LikeRequest struct {
	PostID uint `json:"post_id" validate:"required"`
}
