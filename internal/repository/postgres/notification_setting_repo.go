package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/glp1care/companion-api/internal/domain/entity"
	apperrors "github.com/glp1care/companion-api/internal/pkg/errors"
)

// NotificationSettingRepo implements repository.NotificationSettingRepository
// on PostgreSQL.
type NotificationSettingRepo struct {
	db *gorm.DB
}

func NewNotificationSettingRepo(db *gorm.DB) *NotificationSettingRepo {
	return &NotificationSettingRepo{db: db}
}

func (r *NotificationSettingRepo) CreateDefaults(userID string) error {
	setting := &entity.NotificationSetting{
		UserID:         userID,
		DoseReminders:  true,
		WeeklyCheckins: true,
	}
	if err := r.db.Create(setting).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: notification settings already exist for user %s", apperrors.ErrConflict, userID)
		}
		return fmt.Errorf("failed to create notification settings: %w", err)
	}
	return nil
}

func (r *NotificationSettingRepo) GetByUserID(userID string) (*entity.NotificationSetting, error) {
	var setting entity.NotificationSetting
	err := r.db.Where("user_id = ?", userID).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification settings: %w", err)
	}
	return &setting, nil
}
