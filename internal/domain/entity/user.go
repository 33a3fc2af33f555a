package entity

import (
	"strings"
	"time"
)

// PlaceholderEmailDomain is the reserved domain used when the OAuth provider
// withholds the user's real email. Addresses under it never collide with a
// deliverable address.
const PlaceholderEmailDomain = "naver.placeholder.local"

// User is the durable local identity. ID is the subject id issued by the
// session backend and is immutable once assigned; every dependent table
// references it with ON DELETE CASCADE.
type User struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	OAuthProvider   string    `gorm:"column:oauth_provider;size:20;not null;uniqueIndex:idx_users_oauth_identity,priority:1" json:"oauth_provider"`
	OAuthUserID     string    `gorm:"column:oauth_user_id;size:255;not null;uniqueIndex:idx_users_oauth_identity,priority:2" json:"oauth_user_id"`
	Name            string    `gorm:"size:100;not null;default:''" json:"name"`
	Email           string    `gorm:"size:100;not null;default:''" json:"email"`
	ProfileImageURL string    `gorm:"size:500;not null;default:''" json:"profile_image_url,omitempty"`
	LastLoginAt     time.Time `gorm:"not null" json:"last_login_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName sets the GORM table name.
func (User) TableName() string {
	return "users"
}

// HasRealEmail reports whether the provider supplied a deliverable address.
// The email column stores the provider email only; placeholder addresses are
// kept out of the local profile entirely.
func (u *User) HasRealEmail() bool {
	email := strings.TrimSpace(u.Email)
	return email != "" && !strings.HasSuffix(email, "@"+PlaceholderEmailDomain)
}
