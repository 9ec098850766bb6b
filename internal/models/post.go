package models

import "time"

// Post is a user post. At least one of Content and ImageURL must be
// non-empty; the content engine rejects posts that carry neither.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  uint      `json:"author_id" gorm:"index;not null"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostView is a post with its author and aggregate counters resolved.
type PostView struct {
	Post
	Author        UserRef `json:"author"`
	LikesCount    int64   `json:"likes_count"`
	CommentsCount int64   `json:"comments_count"`
	Liked         bool    `json:"liked"`
}

// PostDetail is the single-post response: the view plus its comments
// (newest first) and the ids of users who liked it.
type PostDetail struct {
	PostView
	Comments    []CommentView `json:"comments"`
	LikeUserIDs []uint        `json:"like_user_ids"`
}

// CreatePostRequest defines the request body for creating a post.
type CreatePostRequest struct {
	Content  string `json:"content,omitempty" validate:"omitempty,max=2000"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest is a partial patch: nil fields are left untouched.
type UpdatePostRequest struct {
	Content  *string `json:"content,omitempty" validate:"omitempty,max=2000"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
}
