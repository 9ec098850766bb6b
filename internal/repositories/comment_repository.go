package repositories

import (
	"github.com/arafat19/ripple/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByPostID(postID uint, offset, limit int) ([]models.Comment, int64, error)
	GetAllCommentsByPostID(postID uint) ([]models.Comment, error)
	UpdateComment(comment *models.Comment) error
	DeleteComment(id uint) error
	CountCommentsByAuthor(authorID uint) (int64, error)
	CountCommentsByPostIDs(postIDs []uint) (map[uint]int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL.
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository.
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment inserts a new comment.
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID.
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID lists a post's comments newest first with the total count.
func (r *PostgresCommentRepository) GetCommentsByPostID(postID uint, offset, limit int) ([]models.Comment, int64, error) {
	var (
		comments []models.Comment
		total    int64
	)
	q := r.db.Model(&models.Comment{}).Where("post_id = ?", postID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&comments).Error
	return comments, total, err
}

// GetAllCommentsByPostID lists every comment on a post, newest first.
func (r *PostgresCommentRepository) GetAllCommentsByPostID(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("post_id = ?", postID).Order("created_at DESC").Find(&comments).Error
	return comments, err
}

// UpdateComment saves an existing comment record.
func (r *PostgresCommentRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// DeleteComment removes a comment by ID.
func (r *PostgresCommentRepository) DeleteComment(id uint) error {
	res := r.db.Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountCommentsByAuthor counts comments written by one user.
func (r *PostgresCommentRepository) CountCommentsByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// CountCommentsByPostIDs returns per-post comment counts for the given ids.
func (r *PostgresCommentRepository) CountCommentsByPostIDs(postIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	rows, err := r.db.Model(&models.Comment{}).
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
