package repository

import "github.com/glp1care/companion-api/internal/domain/entity"

// UserRepository defines storage operations on the local user profile.
type UserRepository interface {
	// Upsert inserts the user or, when a row with the same id already
	// exists, overwrites the profile fields and last_login_at in a single
	// statement. Safe under concurrent duplicate login attempts.
	Upsert(user *entity.User) error

	GetByID(id string) (*entity.User, error)
	GetByOAuthIdentity(provider, oauthUserID string) (*entity.User, error)

	// DeleteByID removes the user row; the store cascades the delete to
	// every dependent table. Returns the number of rows removed so callers
	// can distinguish "deleted" from "already absent".
	DeleteByID(id string) (int64, error)
}
