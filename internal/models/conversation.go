package models

import "time"

// Conversation is a two-party direct-message thread. Participants are
// stored normalized (UserAID < UserBID) so the composite unique index acts
// as the pair key: at most one conversation ever exists for an unordered
// pair, regardless of which participant created it or in what order
// concurrent creations land.
type Conversation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserAID   uint      `json:"user_a_id" gorm:"index;uniqueIndex:idx_conversation_pair"`
	UserBID   uint      `json:"user_b_id" gorm:"index;uniqueIndex:idx_conversation_pair"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"` // bumped on every new message
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID uint) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// NormalizePair returns the order-independent representation of two user
// ids, smaller id first.
func NormalizePair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// ConversationView is a conversation with participants resolved and its
// most recent message attached (nil when no message has been sent yet).
type ConversationView struct {
	ID           uint         `json:"id"`
	Participants []UserRef    `json:"participants"`
	LastMessage  *MessageView `json:"last_message,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// CreateConversationRequest defines the request body for opening (or
// returning the existing) conversation with another user.
type CreateConversationRequest struct {
	ParticipantID uint `json:"participant_id" validate:"required"`
}
