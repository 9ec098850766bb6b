package models

import "time"

// Comment is a comment on a post.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`
	AuthorID  uint      `json:"author_id" gorm:"index;not null"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentView is a comment with its author resolved.
type CommentView struct {
	Comment
	Author UserRef `json:"author"`
}

// CreateCommentRequest defines the request body for creating a comment.
type CreateCommentRequest struct {
	PostID  uint   `json:"post_id" validate:"required"`
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// UpdateCommentRequest defines the request body for editing a comment.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
