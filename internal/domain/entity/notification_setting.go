package entity

import "time"

// NotificationSetting holds per-user push notification preferences. A row
// with defaults is created for every new user; the mobile client expects it
// to exist before the first settings screen render.
type NotificationSetting struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            string    `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	DoseReminders     bool      `gorm:"not null;default:true" json:"dose_reminders"`
	WeeklyCheckins    bool      `gorm:"not null;default:true" json:"weekly_checkins"`
	MarketingMessages bool      `gorm:"not null;default:false" json:"marketing_messages"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName sets the GORM table name.
func (NotificationSetting) TableName() string {
	return "notification_settings"
}
