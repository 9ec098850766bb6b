package repositories

import (
	"github.com/arafat19/ripple/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification data
// operations.
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetNotificationByID(id uint) (*models.Notification, error)
	GetNotificationsByRecipient(recipientID uint, offset, limit int) ([]models.Notification, int64, error)
	CountUnread(recipientID uint) (int64, error)
	MarkRead(id uint) error
	MarkAllRead(recipientID uint) error
}

// PostgresNotificationRepository implements NotificationRepository for
// PostgreSQL.
type PostgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new PostgresNotificationRepository.
func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// CreateNotification inserts a new notification.
func (r *PostgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// GetNotificationByID retrieves a notification by ID.
func (r *PostgresNotificationRepository) GetNotificationByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// GetNotificationsByRecipient lists a user's notifications newest first with
// the total count.
func (r *PostgresNotificationRepository) GetNotificationsByRecipient(recipientID uint, offset, limit int) ([]models.Notification, int64, error) {
	var (
		notifications []models.Notification
		total         int64
	)
	q := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error
	return notifications, total, err
}

// CountUnread counts a user's unread notifications.
func (r *PostgresNotificationRepository) CountUnread(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks one notification as read.
func (r *PostgresNotificationRepository) MarkRead(id uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true).Error
}

// MarkAllRead marks all of a user's notifications as read.
func (r *PostgresNotificationRepository) MarkAllRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}
