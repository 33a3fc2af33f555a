package repository

import "github.com/glp1care/companion-api/internal/domain/entity"

// NotificationSettingRepository stores per-user notification preferences.
type NotificationSettingRepository interface {
	// CreateDefaults inserts a defaults row for a new user. A unique
	// violation on user_id is reported as apperrors.ErrConflict.
	CreateDefaults(userID string) error

	GetByUserID(userID string) (*entity.NotificationSetting, error)
}
