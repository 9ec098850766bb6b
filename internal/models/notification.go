package models

import "time"

// Notification types emitted by the engines.
const (
	NotificationFollow  = "follow"
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationMessage = "message"
)

// Notification is a stored user notification.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	TargetID    uint      `json:"target_id"` // post, comment or conversation id depending on Type
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// NotificationView is a notification with its actor resolved.
type NotificationView struct {
	Notification
	Actor UserRef `json:"actor"`
}
