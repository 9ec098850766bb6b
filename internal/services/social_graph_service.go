package services

import (
	"errors"

	"github.com/arafat19/ripple/backend/internal/apperr"
	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/arafat19/ripple/backend/internal/repositories"
	"gorm.io/gorm"
)

// SocialGraphService owns the directed follow graph.
type SocialGraphService interface {
	Follow(followerID, targetID uint) error
	Unfollow(followerID, targetID uint) error
	IsFollowing(followerID, targetID uint) (bool, error)
	Followers(userID uint, page, limit int) ([]models.UserRef, models.Pagination, error)
	Following(userID uint, page, limit int) ([]models.UserRef, models.Pagination, error)
}

type socialGraphService struct {
	follows       repositories.FollowRepository
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
}

// NewSocialGraphService creates the social graph engine.
func NewSocialGraphService(
	follows repositories.FollowRepository,
	users repositories.UserRepository,
	notifications repositories.NotificationRepository,
) SocialGraphService {
	return &socialGraphService{follows: follows, users: users, notifications: notifications}
}

// Follow inserts a follow edge. The composite unique index makes the insert
// effectively atomic per pair: when two identical requests race, exactly one
// succeeds and the other observes AlreadyExists.
func (s *socialGraphService) Follow(followerID, targetID uint) error {
	if followerID == targetID {
		return apperr.InvalidArgument("you cannot follow yourself")
	}

	actor, err := s.users.GetUserByID(followerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal(err)
	}
	if _, err := s.users.GetUserByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal(err)
	}

	following, err := s.follows.IsFollowing(followerID, targetID)
	if err != nil {
		return apperr.Internal(err)
	}
	if following {
		return apperr.AlreadyExists("already following this user")
	}

	follow := &models.Follow{FollowerID: followerID, FollowingID: targetID}
	if err := s.follows.CreateFollow(follow); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.AlreadyExists("already following this user")
		}
		return apperr.Internal(err)
	}

	notification := &models.Notification{
		Type:        models.NotificationFollow,
		ActorID:     followerID,
		RecipientID: targetID,
		TargetID:    followerID,
		Message:     actor.Username + " started following you",
	}
	if err := s.notifications.CreateNotification(notification); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Unfollow removes a follow edge, failing with NotFound when none exists.
func (s *socialGraphService) Unfollow(followerID, targetID uint) error {
	if err := s.follows.DeleteFollow(followerID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("you are not following this user")
		}
		return apperr.Internal(err)
	}
	return nil
}

// IsFollowing reports whether followerID follows targetID.
func (s *socialGraphService) IsFollowing(followerID, targetID uint) (bool, error) {
	following, err := s.follows.IsFollowing(followerID, targetID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return following, nil
}

// Followers pages through a user's followers, most recent edge first.
func (s *socialGraphService) Followers(userID uint, page, limit int) ([]models.UserRef, models.Pagination, error) {
	if _, err := s.users.GetUserByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.Pagination{}, apperr.NotFound("user not found")
		}
		return nil, models.Pagination{}, apperr.Internal(err)
	}
	users, total, err := s.follows.GetFollowers(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal(err)
	}
	return toRefs(users), models.NewPagination(page, limit, total), nil
}

// Following pages through the users a user follows, most recent edge first.
func (s *socialGraphService) Following(userID uint, page, limit int) ([]models.UserRef, models.Pagination, error) {
	if _, err := s.users.GetUserByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.Pagination{}, apperr.NotFound("user not found")
		}
		return nil, models.Pagination{}, apperr.Internal(err)
	}
	users, total, err := s.follows.GetFollowing(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal(err)
	}
	return toRefs(users), models.NewPagination(page, limit, total), nil
}

func toRefs(users []models.User) []models.UserRef {
	refs := make([]models.UserRef, len(users))
	for i := range users {
		refs[i] = users[i].ToRef()
	}
	return refs
}
