package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/glp1care/companion-api/internal/domain/entity"
	apperrors "github.com/glp1care/companion-api/internal/pkg/errors"
)

// UserRepo implements repository.UserRepository on PostgreSQL.
type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Upsert performs a single-statement insert-or-update keyed on the immutable
// user id. ON CONFLICT keeps concurrent duplicate logins from racing an
// insert-then-update pair; at most one row per id can ever exist.
func (r *UserRepo) Upsert(user *entity.User) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"oauth_provider",
			"oauth_user_id",
			"name",
			"email",
			"profile_image_url",
			"last_login_at",
			"updated_at",
		}),
	}).Create(user).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) GetByOAuthIdentity(provider, oauthUserID string) (*entity.User, error) {
	var user entity.User
	err := r.db.
		Where("oauth_provider = ? AND oauth_user_id = ?", provider, oauthUserID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by oauth identity: %w", err)
	}
	return &user, nil
}

// DeleteByID removes the user row. Dependent tables are declared with
// ON DELETE CASCADE from users(id), so this one statement erases everything
// the user owns. RowsAffected lets callers treat "already absent" as success.
func (r *UserRepo) DeleteByID(id string) (int64, error) {
	result := r.db.Where("id = ?", id).Delete(&entity.User{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete user: %w", result.Error)
	}
	return result.RowsAffected, nil
}
