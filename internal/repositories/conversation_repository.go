package repositories

import (
	"time"

	"github.com/arafat19/ripple/backend/internal/models"
	"gorm.io/gorm"
)

// ConversationRepository defines the interface for conversation data
// operations. Callers pass participant pairs already normalized
// (userA < userB) so the composite unique index can act as the pair key.
type ConversationRepository interface {
	CreateConversation(conversation *models.Conversation) error
	GetConversationByID(id uint) (*models.Conversation, error)
	GetConversationByPair(userA, userB uint) (*models.Conversation, error)
	GetConversationsByParticipant(userID uint) ([]models.Conversation, error)
	TouchConversation(id uint, at time.Time) error
}

// PostgresConversationRepository implements ConversationRepository for
// PostgreSQL.
type PostgresConversationRepository struct {
	db *gorm.DB
}

// NewPostgresConversationRepository creates a new PostgresConversationRepository.
func NewPostgresConversationRepository(db *gorm.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

// CreateConversation inserts a conversation. A concurrent creation for the
// same pair surfaces as gorm.ErrDuplicatedKey; callers re-read by pair to
// converge on the winning row.
func (r *PostgresConversationRepository) CreateConversation(conversation *models.Conversation) error {
	return r.db.Create(conversation).Error
}

// GetConversationByID retrieves a conversation by ID.
func (r *PostgresConversationRepository) GetConversationByID(id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.First(&conversation, id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetConversationByPair retrieves the conversation for a normalized pair.
func (r *PostgresConversationRepository) GetConversationByPair(userA, userB uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.Where("user_a_id = ? AND user_b_id = ?", userA, userB).First(&conversation).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetConversationsByParticipant lists a user's conversations, most recently
// active first.
func (r *PostgresConversationRepository) GetConversationsByParticipant(userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

// TouchConversation bumps a conversation's updated_at, which drives the
// conversation-list ordering.
func (r *PostgresConversationRepository) TouchConversation(id uint, at time.Time) error {
	return r.db.Model(&models.Conversation{}).Where("id = ?", id).Update("updated_at", at).Error
}
