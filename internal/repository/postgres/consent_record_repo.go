package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/glp1care/companion-api/internal/domain/entity"
	apperrors "github.com/glp1care/companion-api/internal/pkg/errors"
)

const uniqueViolationCode = "23505"

// ConsentRecordRepo implements repository.ConsentRecordRepository on PostgreSQL.
type ConsentRecordRepo struct {
	db *gorm.DB
}

func NewConsentRecordRepo(db *gorm.DB) *ConsentRecordRepo {
	return &ConsentRecordRepo{db: db}
}

// Create inserts the consent record. The unique index on user_id turns a
// duplicate insert (retried signup, concurrent duplicate login) into
// ErrConflict instead of a second row.
func (r *ConsentRecordRepo) Create(record *entity.ConsentRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: consent already recorded for user %s", apperrors.ErrConflict, record.UserID)
		}
		return fmt.Errorf("failed to create consent record: %w", err)
	}
	return nil
}

func (r *ConsentRecordRepo) GetByUserID(userID string) (*entity.ConsentRecord, error) {
	var record entity.ConsentRecord
	err := r.db.Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get consent record: %w", err)
	}
	return &record, nil
}

// isUniqueViolation matches PostgreSQL SQLSTATE 23505 via the pgx driver
// error type. Structured code check, not a message-substring match.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
