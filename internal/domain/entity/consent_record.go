package entity

import "time"

// ConsentRecord stores the ToS/privacy-policy agreement captured at first
// provisioning. The unique index on user_id guarantees at most one record
// per user even under concurrent duplicate login attempts.
type ConsentRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         string    `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	TermsOfService bool      `gorm:"not null;default:true" json:"terms_of_service"`
	PrivacyPolicy  bool      `gorm:"not null;default:true" json:"privacy_policy"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the GORM table name.
func (ConsentRecord) TableName() string {
	return "consent_records"
}
