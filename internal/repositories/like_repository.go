package repositories

import (
	"github.com/arafat19/ripple/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations.
type LikeRepository interface {
	CreateLike(like *models.Like) error
	DeleteLike(userID, postID uint) error
	HasUserLikedPost(userID, postID uint) (bool, error)
	GetLikers(postID uint, offset, limit int) ([]models.User, int64, error)
	GetLikeUserIDs(postID uint) ([]uint, error)
	CountLikesByUser(userID uint) (int64, error)
	CountLikesByPostIDs(postIDs []uint) (map[uint]int64, error)
	GetLikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL.
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository.
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike inserts a like. A second like for the same (user, post) pair
// surfaces as gorm.ErrDuplicatedKey via the composite unique index.
func (r *PostgresLikeRepository) CreateLike(like *models.Like) error {
	return r.db.Create(like).Error
}

// DeleteLike removes the like for a (user, post) pair, reporting
// gorm.ErrRecordNotFound when none exists.
func (r *PostgresLikeRepository) DeleteLike(userID, postID uint) error {
	res := r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasUserLikedPost checks whether a user has liked a post.
func (r *PostgresLikeRepository) HasUserLikedPost(userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLikers lists users who liked a post, most recent like first.
func (r *PostgresLikeRepository) GetLikers(postID uint, offset, limit int) ([]models.User, int64, error) {
	var (
		users []models.User
		total int64
	)
	if err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Model(&models.User{}).
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.post_id = ?", postID).
		Order("likes.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, total, err
}

// GetLikeUserIDs returns the ids of all users who liked a post.
func (r *PostgresLikeRepository) GetLikeUserIDs(postID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Pluck("user_id", &ids).Error
	return ids, err
}

// CountLikesByUser counts likes given by one user.
func (r *PostgresLikeRepository) CountLikesByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CountLikesByPostIDs returns per-post like counts for the given ids.
func (r *PostgresLikeRepository) CountLikesByPostIDs(postIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	rows, err := r.db.Model(&models.Like{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			postID uint
			count  int64
		)
		if err := rows.Scan(&postID, &count); err != nil {
			return nil, err
		}
		counts[postID] = count
	}
	return counts, rows.Err()
}

// GetLikedPostIDs reports which of the given posts the user has liked.
func (r *PostgresLikeRepository) GetLikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}
	var ids []uint
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
