package repositories

import (
	"github.com/arafat19/ripple/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations.
type MessageRepository interface {
	CreateMessage(message *models.Message) error
	GetMessageByID(id uint) (*models.Message, error)
	GetMessagesByConversation(conversationID uint) ([]models.Message, error)
	GetLatestByConversationIDs(conversationIDs []uint) (map[uint]models.Message, error)
	UpdateMessage(message *models.Message) error
	DeleteMessage(id uint) error
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL.
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository.
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

// CreateMessage inserts a new message.
func (r *PostgresMessageRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetMessageByID retrieves a message by ID.
func (r *PostgresMessageRepository) GetMessageByID(id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// GetMessagesByConversation lists a conversation's messages oldest first.
func (r *PostgresMessageRepository) GetMessagesByConversation(conversationID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// GetLatestByConversationIDs returns the most recent message per
// conversation, for annotating the conversation list in one query.
func (r *PostgresMessageRepository) GetLatestByConversationIDs(conversationIDs []uint) (map[uint]models.Message, error) {
	latest := make(map[uint]models.Message, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return latest, nil
	}
	var messages []models.Message
	err := r.db.Raw(
		`SELECT DISTINCT ON (conversation_id) *
		 FROM messages
		 WHERE conversation_id IN ?
		 ORDER BY conversation_id, created_at DESC, id DESC`,
		conversationIDs,
	).Scan(&messages).Error
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		latest[m.ConversationID] = m
	}
	return latest, nil
}

// UpdateMessage saves an existing message record.
func (r *PostgresMessageRepository) UpdateMessage(message *models.Message) error {
	return r.db.Save(message).Error
}

// DeleteMessage removes a message by ID.
func (r *PostgresMessageRepository) DeleteMessage(id uint) error {
	res := r.db.Delete(&models.Message{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
