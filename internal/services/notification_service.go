package services

import (
	"errors"

	"github.com/arafat19/ripple/backend/internal/apperr"
	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/arafat19/ripple/backend/internal/repositories"
	"gorm.io/gorm"
)

// NotificationService exposes a user's notification feed. Notifications are
// created inside the other engines; this service only reads and acknowledges.
type NotificationService interface {
	ListNotifications(actorID uint, page, limit int) ([]models.NotificationView, models.Pagination, error)
	UnreadCount(actorID uint) (int64, error)
	MarkRead(actorID, id uint) error
	MarkAllRead(actorID uint) error
}

type notificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
}

// NewNotificationService creates the notification reader.
func NewNotificationService(
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
) NotificationService {
	return &notificationService{notifications: notifications, users: users}
}

// ListNotifications pages through the caller's notifications, newest first.
func (s *notificationService) ListNotifications(actorID uint, page, limit int) ([]models.NotificationView, models.Pagination, error) {
	notifications, total, err := s.notifications.GetNotificationsByRecipient(actorID, (page-1)*limit, limit)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal(err)
	}

	actorIDs := make([]uint, len(notifications))
	for i, n := range notifications {
		actorIDs[i] = n.ActorID
	}
	users, err := s.users.GetUsersByIDs(dedupe(actorIDs))
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal(err)
	}
	refs := make(map[uint]models.UserRef, len(users))
	for i := range users {
		refs[users[i].ID] = users[i].ToRef()
	}

	views := make([]models.NotificationView, len(notifications))
	for i, n := range notifications {
		views[i] = models.NotificationView{Notification: n, Actor: refs[n.ActorID]}
	}
	return views, models.NewPagination(page, limit, total), nil
}

// UnreadCount counts the caller's unread notifications.
func (s *notificationService) UnreadCount(actorID uint) (int64, error) {
	count, err := s.notifications.CountUnread(actorID)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

// MarkRead acknowledges one of the caller's own notifications.
func (s *notificationService) MarkRead(actorID, id uint) error {
	notification, err := s.notifications.GetNotificationByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("notification not found")
		}
		return apperr.Internal(err)
	}
	if !Authorize(actorID, notification.RecipientID) {
		return apperr.Forbidden("you are not authorized to update this notification")
	}
	if err := s.notifications.MarkRead(id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// MarkAllRead acknowledges every unread notification of the caller.
func (s *notificationService) MarkAllRead(actorID uint) error {
	if err := s.notifications.MarkAllRead(actorID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
