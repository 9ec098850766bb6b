package models

import "time"

// Message is a direct message inside a conversation. SenderID is always
// one of the conversation's two participants.
type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"index;not null"`
	SenderID       uint      `json:"sender_id" gorm:"index;not null"`
	Content        string    `json:"content" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MessageView is a message with its sender resolved.
type MessageView struct {
	Message
	Sender UserRef `json:"sender"`
}

// SendMessageRequest defines the request body for sending a message.
type SendMessageRequest struct {
	ConversationID uint   `json:"conversation_id" validate:"required"`
	Content        string `json:"content" validate:"required,min=1,max=2000"`
}

// EditMessageRequest defines the request body for editing a message.
type EditMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
