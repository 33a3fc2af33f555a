package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/glp1care/companion-api/internal/domain/repository"
	apperrors "github.com/glp1care/companion-api/internal/pkg/errors"
	"github.com/glp1care/companion-api/pkg/gotrue"
)

// An account deletion that fails between the local delete and the credential
// delete leaves an orphan: an auth record with no local user row. Those are
// unsafe to retry from the client, so this service finds them and finishes
// the deletion out of band.

// OrphanAccount is one auth record without a matching local user row.
type OrphanAccount struct {
	AuthUserID  string
	Email       string
	CreatedAt   time.Time
	Deleted     bool
	DeleteError string
}

// ReconcileReport summarizes one reconciliation run.
type ReconcileReport struct {
	StartedAt    time.Time
	FinishedAt   time.Time
	ScannedUsers int
	Orphans      []OrphanAccount
	DeletedCount int
}

// ReconcileService scans the session backend's user list for naver-provisioned
// accounts whose local row is gone and, in apply mode, hard-deletes them.
type ReconcileService struct {
	authAdmin   AuthAdminAPI
	userRepo    repository.UserRepository
	gracePeriod time.Duration
	pageSize    int
}

func NewReconcileService(authAdmin AuthAdminAPI, userRepo repository.UserRepository, gracePeriod time.Duration, pageSize int) (*ReconcileService, error) {
	if authAdmin == nil {
		return nil, fmt.Errorf("auth admin client is required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if gracePeriod <= 0 {
		gracePeriod = time.Hour
	}
	if pageSize <= 0 {
		pageSize = 100
	}
	return &ReconcileService{
		authAdmin:   authAdmin,
		userRepo:    userRepo,
		gracePeriod: gracePeriod,
		pageSize:    pageSize,
	}, nil
}

// Run pages through the backend's users and reports every naver-provisioned
// auth record without a local user row. Accounts younger than the grace
// period are skipped: an in-flight login bridge may not have upserted its
// profile row yet. With apply set, orphaned credentials are hard-deleted.
func (s *ReconcileService) Run(ctx context.Context, apply bool) (*ReconcileReport, error) {
	report := &ReconcileReport{StartedAt: time.Now()}

	for page := 1; ; page++ {
		users, err := s.authAdmin.ListUsers(ctx, page, s.pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list auth users (page %d): %w", page, err)
		}
		if len(users) == 0 {
			break
		}
		report.ScannedUsers += len(users)

		for i := range users {
			authUser := users[i]
			if !isNaverProvisioned(&authUser) {
				continue
			}
			if time.Since(authUser.CreatedAt) < s.gracePeriod {
				continue
			}

			_, lookupErr := s.userRepo.GetByID(authUser.ID)
			if lookupErr == nil {
				continue
			}
			if !errors.Is(lookupErr, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("local lookup failed for user=%s: %w", authUser.ID, lookupErr)
			}

			orphan := OrphanAccount{
				AuthUserID: authUser.ID,
				Email:      authUser.Email,
				CreatedAt:  authUser.CreatedAt,
			}
			log.Printf("[Reconcile] orphaned credential: user=%s created_at=%s", authUser.ID, authUser.CreatedAt.Format(time.RFC3339))

			if apply {
				if delErr := s.authAdmin.DeleteUser(ctx, authUser.ID, false); delErr != nil && !gotrue.IsNotFound(delErr) {
					orphan.DeleteError = delErr.Error()
					log.Printf("[Reconcile] failed to delete orphaned credential user=%s: %v", authUser.ID, delErr)
				} else {
					orphan.Deleted = true
					report.DeletedCount++
					log.Printf("[Reconcile] deleted orphaned credential user=%s", authUser.ID)
				}
			}
			report.Orphans = append(report.Orphans, orphan)
		}

		if len(users) < s.pageSize {
			break
		}
	}

	report.FinishedAt = time.Now()
	log.Printf("[Reconcile] scanned=%d orphans=%d deleted=%d", report.ScannedUsers, len(report.Orphans), report.DeletedCount)
	return report, nil
}

func isNaverProvisioned(user *gotrue.User) bool {
	if user.UserMetadata == nil {
		return false
	}
	provider, _ := user.UserMetadata["provider"].(string)
	return provider == NaverProviderName
}

// WriteReportXLSX writes the run summary as a workbook for operators.
func WriteReportXLSX(report *ReconcileReport, path string) error {
	if report == nil {
		return fmt.Errorf("report is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orphans"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Auth User ID", "Email", "Created At", "Deleted", "Delete Error"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, orphan := range report.Orphans {
		values := []interface{}{
			orphan.AuthUserID,
			orphan.Email,
			orphan.CreatedAt.Format(time.RFC3339),
			orphan.Deleted,
			orphan.DeleteError,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write report row: %w", err)
			}
		}
	}

	summary := fmt.Sprintf("scanned=%d orphans=%d deleted=%d started=%s",
		report.ScannedUsers, len(report.Orphans), report.DeletedCount, report.StartedAt.Format(time.RFC3339))
	if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", len(report.Orphans)+3), summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}
