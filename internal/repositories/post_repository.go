package repositories

import (
	"github.com/arafat19/ripple/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetPosts(offset, limit int) ([]models.Post, int64, error)
	GetPostsByAuthor(authorID uint, offset, limit int) ([]models.Post, int64, error)
	UpdatePost(post *models.Post) error
	DeletePost(id uint) error
	CountPostsByAuthor(authorID uint) (int64, error)
	CountPostsByAuthors(authorIDs []uint) (map[uint]int64, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL.
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository.
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost inserts a new post.
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID retrieves a post by ID.
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPosts lists posts newest first with the total count.
func (r *PostgresPostRepository) GetPosts(offset, limit int) ([]models.Post, int64, error) {
	var (
		posts []models.Post
		total int64
	)
	if err := r.db.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error
	return posts, total, err
}

// GetPostsByAuthor lists one author's posts newest first with the total count.
func (r *PostgresPostRepository) GetPostsByAuthor(authorID uint, offset, limit int) ([]models.Post, int64, error) {
	var (
		posts []models.Post
		total int64
	)
	q := r.db.Model(&models.Post{}).Where("author_id = ?", authorID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error
	return posts, total, err
}

// UpdatePost saves an existing post record.
func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Save(post).Error
}

// DeletePost removes a post together with its comments and likes in one
// transaction so no orphan rows survive.
func (r *PostgresPostRepository) DeletePost(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountPostsByAuthor counts one author's posts.
func (r *PostgresPostRepository) CountPostsByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// CountPostsByAuthors returns per-author post counts for the given ids.
func (r *PostgresPostRepository) CountPostsByAuthors(authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}
	rows, err := r.db.Model(&models.Post{}).
		Select("author_id, COUNT(*) AS count").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			authorID uint
			count    int64
		)
		if err := rows.Scan(&authorID, &count); err != nil {
			return nil, err
		}
		counts[authorID] = count
	}
	return counts, rows.Err()
}
