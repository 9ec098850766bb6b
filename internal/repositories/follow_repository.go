package repositories

import (
	"github.com/arafat19/ripple/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations.
type FollowRepository interface {
	CreateFollow(follow *models.Follow) error
	DeleteFollow(followerID, followingID uint) error
	IsFollowing(followerID, followingID uint) (bool, error)
	GetFollowers(userID uint, offset, limit int) ([]models.User, int64, error)
	GetFollowing(userID uint, offset, limit int) ([]models.User, int64, error)
	GetFollowersCount(userID uint) (int64, error)
	GetFollowingCount(userID uint) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL.
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository.
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// CreateFollow inserts a follow edge. A duplicate edge (including the loser
// of a concurrent race) surfaces as gorm.ErrDuplicatedKey via the composite
// unique index.
func (r *PostgresFollowRepository) CreateFollow(follow *models.Follow) error {
	return r.db.Create(follow).Error
}

// DeleteFollow removes a follow edge, reporting gorm.ErrRecordNotFound when
// no edge exists.
func (r *PostgresFollowRepository) DeleteFollow(followerID, followingID uint) error {
	res := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsFollowing checks whether a follow edge exists.
func (r *PostgresFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowers lists users following userID, most recent edge first.
func (r *PostgresFollowRepository) GetFollowers(userID uint, offset, limit int) ([]models.User, int64, error) {
	var (
		users []models.User
		total int64
	)
	if err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Model(&models.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, total, err
}

// GetFollowing lists users that userID follows, most recent edge first.
func (r *PostgresFollowRepository) GetFollowing(userID uint, offset, limit int) ([]models.User, int64, error) {
	var (
		users []models.User
		total int64
	)
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Model(&models.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, total, err
}

// GetFollowersCount counts users following userID.
func (r *PostgresFollowRepository) GetFollowersCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

// GetFollowingCount counts users that userID follows.
func (r *PostgresFollowRepository) GetFollowingCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
