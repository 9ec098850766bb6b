package services

import (
	"errors"
	"strings"

	"github.com/arafat19/ripple/backend/internal/apperr"
	"github.com/arafat19/ripple/backend/internal/models"
	"github.com/arafat19/ripple/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// IdentityService owns user records: registration, lookup, profile updates
// and account deletion. No other engine creates or renames users.
type IdentityService interface {
	CreateUser(username, email, passwordHash, bio, avatarURL string) (*models.User, error)
	GetUser(id uint) (*models.UserProfile, error)
	ListUsers(search string, page, limit int) ([]models.UserSummary, models.Pagination, error)
	UpdateProfile(actorID, id uint, patch *models.UpdateProfileRequest) (*models.User, error)
	ChangePassword(actorID, id uint, req *models.ChangePasswordRequest) error
	DeleteUser(actorID, id uint) error
	UserStats(id uint) (*models.UserStats, error)
}

type identityService struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	likes    repositories.LikeRepository
	follows  repositories.FollowRepository
}

// NewIdentityService creates the identity engine.
func NewIdentityService(
	users repositories.UserRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	likes repositories.LikeRepository,
	follows repositories.FollowRepository,
) IdentityService {
	return &identityService{
		users:    users,
		posts:    posts,
		comments: comments,
		likes:    likes,
		follows:  follows,
	}
}

// CreateUser inserts a new account. Username collisions are checked
// case-insensitively; the unique indexes catch the race when two
// registrations for the same name land together.
func (s *identityService) CreateUser(username, email, passwordHash, bio, avatarURL string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || email == "" || passwordHash == "" {
		return nil, apperr.InvalidArgument("username, email and password are required")
	}

	if existing, err := s.users.GetUserByUsername(username); err == nil && existing != nil {
		return nil, apperr.DuplicateKey("username already taken")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}
	if existing, err := s.users.GetUserByEmail(email); err == nil && existing != nil {
		return nil, apperr.DuplicateKey("email already in use")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  passwordHash,
		Bio:       bio,
		AvatarURL: avatarURL,
	}
	if err := s.users.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.DuplicateKey("username or email already in use")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// GetUser returns a public profile with stats and follow counts, recomputed
// from the underlying rows on every call.
func (s *identityService) GetUser(id uint) (*models.UserProfile, error) {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}

	stats, err := s.UserStats(id)
	if err != nil {
		return nil, err
	}
	followers, err := s.follows.GetFollowersCount(id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	following, err := s.follows.GetFollowingCount(id)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &models.UserProfile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
		Stats:     *stats,
		Followers: followers,
		Following: following,
	}, nil
}

// ListUsers pages through users whose username contains search
// (case-insensitive), newest first, each with their post count.
func (s *identityService) ListUsers(search string, page, limit int) ([]models.UserSummary, models.Pagination, error) {
	offset := (page - 1) * limit
	users, total, err := s.users.SearchUsers(search, offset, limit)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal(err)
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	postCounts, err := s.posts.CountPostsByAuthors(ids)
	if err != nil {
		return nil, models.Pagination{}, apperr.Internal(err)
	}

	summaries := make([]models.UserSummary, len(users))
	for i, u := range users {
		summaries[i] = models.UserSummary{
			ID:         u.ID,
			Username:   u.Username,
			Bio:        u.Bio,
			AvatarURL:  u.AvatarURL,
			CreatedAt:  u.CreatedAt,
			PostsCount: postCounts[u.ID],
		}
	}
	return summaries, models.NewPagination(page, limit, total), nil
}

// UpdateProfile applies a partial patch to a user's own profile. A username
// or email already held by a different user is a DuplicateKey failure; the
// unique indexes settle concurrent updates racing on the same name.
func (s *identityService) UpdateProfile(actorID, id uint, patch *models.UpdateProfileRequest) (*models.User, error) {
	if actorID == 0 {
		return nil, apperr.Unauthenticated("authentication required")
	}
	if !Authorize(actorID, id) {
		return nil, apperr.Forbidden("you are not authorized to update this user")
	}

	user, err := s.users.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return nil, apperr.InvalidArgument("username must not be empty")
		}
		existing, err := s.users.GetUserByUsername(username)
		if err == nil && existing.ID != id {
			return nil, apperr.DuplicateKey("username already taken")
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Internal(err)
		}
		user.Username = username
	}
	if patch.Email != nil {
		existing, err := s.users.GetUserByEmail(*patch.Email)
		if err == nil && existing.ID != id {
			return nil, apperr.DuplicateKey("email already in use")
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Internal(err)
		}
		user.Email = *patch.Email
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = *patch.AvatarURL
	}

	if err := s.users.UpdateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.DuplicateKey("username or email already in use")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// ChangePassword verifies the current password and stores the new hash.
func (s *identityService) ChangePassword(actorID, id uint, req *models.ChangePasswordRequest) error {
	if actorID == 0 {
		return apperr.Unauthenticated("authentication required")
	}
	if !Authorize(actorID, id) {
		return apperr.Forbidden("you are not authorized to change this password")
	}
	if req.NewPassword != req.ConfirmPassword {
		return apperr.InvalidArgument("passwords do not match")
	}

	user, err := s.users.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return apperr.Unauthenticated("current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(err)
	}
	user.Password = string(hashed)

	if err := s.users.UpdateUser(user); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// DeleteUser removes a user's own account, cascading across posts, comments,
// likes, follows, conversations and messages.
func (s *identityService) DeleteUser(actorID, id uint) error {
	if actorID == 0 {
		return apperr.Unauthenticated("authentication required")
	}
	if !Authorize(actorID, id) {
		return apperr.Forbidden("you are not authorized to delete this user")
	}

	if _, err := s.users.GetUserByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal(err)
	}

	if err := s.users.DeleteUser(id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// UserStats recomputes exact per-user counts on every call.
func (s *identityService) UserStats(id uint) (*models.UserStats, error) {
	if _, err := s.users.GetUserByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}

	posts, err := s.posts.CountPostsByAuthor(id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	comments, err := s.comments.CountCommentsByAuthor(id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	likes, err := s.likes.CountLikesByUser(id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &models.UserStats{Posts: posts, Comments: comments, Likes: likes}, nil
}
