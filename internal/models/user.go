package models

import "time"

// User is an account record stored in PostgreSQL. Username uniqueness is
// case-insensitive, enforced by a unique index on LOWER(username) created
// alongside AutoMigrate (GORM tags cannot express functional indexes).
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:30;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-"` // bcrypt hash, never serialized
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRef is the minimal author projection embedded in posts, comments,
// likes, conversations and notifications.
type UserRef struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// ToRef converts a full user record to its embeddable projection.
func (u *User) ToRef() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
}

// UserStats are exact per-user counts, recomputed on every call.
type UserStats struct {
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
	Likes    int64 `json:"likes"`
}

// UserProfile is the public profile response: the account plus live stats
// and follow counts.
type UserProfile struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	Stats     UserStats `json:"stats"`
	Followers int64     `json:"followers_count"`
	Following int64     `json:"following_count"`
}

// UserSummary is a row in the paginated user listing.
type UserSummary struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Bio        string    `json:"bio"`
	AvatarURL  string    `json:"avatar_url"`
	CreatedAt  time.Time `json:"created_at"`
	PostsCount int64     `json:"posts_count"`
}

// RegisterRequest defines the request body for account registration.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=30"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Bio             string `json:"bio,omitempty" validate:"omitempty,max=300"`
	AvatarURL       string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// LoginRequest defines the request body for email/password login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is a partial patch: nil fields are left untouched.
type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=30"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=300"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// ChangePasswordRequest defines the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}
