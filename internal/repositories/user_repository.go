package repositories

import (
	"strings"

	"github.com/arafat19/ripple/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUsersByIDs(ids []uint) ([]models.User, error)
	SearchUsers(query string, offset, limit int) ([]models.User, int64, error)
	UpdateUser(user *models.User) error
	DeleteUser(id uint) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL.
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository.
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser inserts a new user. A username or email collision surfaces as
// gorm.ErrDuplicatedKey via the unique indexes.
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID.
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username, case-insensitively.
func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs retrieves all users matching the given ids.
func (r *PostgresUserRepository) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// escapeLike escapes LIKE wildcards in user-supplied search text so the
// query matches them literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// SearchUsers lists users whose username contains query (case-insensitive),
// newest first, with the total match count for pagination.
func (r *PostgresUserRepository) SearchUsers(query string, offset, limit int) ([]models.User, int64, error) {
	var (
		users []models.User
		total int64
	)
	q := r.db.Model(&models.User{})
	if query != "" {
		q = q.Where(`LOWER(username) LIKE LOWER(?) ESCAPE '\'`, "%"+escapeLike(query)+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateUser saves an existing user record.
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// DeleteUser removes a user and everything they own in one transaction:
// comments and likes on their posts, their posts, their own comments and
// likes elsewhere, follow edges in both directions, conversations they
// participate in together with all messages, and notifications.
func (r *PostgresUserRepository) DeleteUser(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		postIDs := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		convIDs := tx.Model(&models.Conversation{}).Select("id").Where("user_a_id = ? OR user_b_id = ?", id, id)
		if err := tx.Where("conversation_id IN (?)", convIDs).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_a_id = ? OR user_b_id = ?", id, id).Delete(&models.Conversation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("actor_id = ? OR recipient_id = ?", id, id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}
