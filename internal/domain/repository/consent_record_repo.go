package repository

import "github.com/glp1care/companion-api/internal/domain/entity"

// ConsentRecordRepository stores ToS/privacy consent captured at signup.
type ConsentRecordRepository interface {
	// Create inserts the consent record. Implementations must treat a
	// unique violation on user_id as "already recorded" and report it via
	// apperrors.ErrConflict rather than a generic error.
	Create(record *entity.ConsentRecord) error

	GetByUserID(userID string) (*entity.ConsentRecord, error)
}
