package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/glp1care/companion-api/internal/domain/entity"
	apperrors "github.com/glp1care/companion-api/internal/pkg/errors"
	"github.com/glp1care/companion-api/pkg/gotrue"
)

const (
	orphanUserID = "11111111-2222-4333-8444-555555555555"
	linkedUserID = "66666666-7777-4888-9999-aaaaaaaaaaaa"
)

func naverAuthUser(id string, createdAt time.Time) gotrue.User {
	return gotrue.User{
		ID:        id,
		Email:     PlaceholderEmail(id),
		CreatedAt: createdAt,
		UserMetadata: map[string]interface{}{
			"provider": NaverProviderName,
			"naver_id": id,
		},
	}
}

func TestReconcileService_Run_ReportOnly(t *testing.T) {
	authAdmin := new(MockAuthAdmin)
	userRepo := new(MockUserRepository)
	svc, err := NewReconcileService(authAdmin, userRepo, time.Hour, 100)
	require.NoError(t, err)

	old := time.Now().Add(-24 * time.Hour)
	authAdmin.On("ListUsers", mock.Anything, 1, 100).Return([]gotrue.User{
		naverAuthUser(orphanUserID, old),
		naverAuthUser(linkedUserID, old),
	}, nil)
	userRepo.On("GetByID", orphanUserID).Return(nil, apperrors.ErrNotFound)
	userRepo.On("GetByID", linkedUserID).Return(&entity.User{ID: linkedUserID}, nil)

	report, err := svc.Run(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 2, report.ScannedUsers)
	require.Len(t, report.Orphans, 1)
	assert.Equal(t, orphanUserID, report.Orphans[0].AuthUserID)
	assert.False(t, report.Orphans[0].Deleted)
	assert.Equal(t, 0, report.DeletedCount)
	authAdmin.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileService_Run_ApplyDeletesOrphans(t *testing.T) {
	authAdmin := new(MockAuthAdmin)
	userRepo := new(MockUserRepository)
	svc, err := NewReconcileService(authAdmin, userRepo, time.Hour, 100)
	require.NoError(t, err)

	old := time.Now().Add(-24 * time.Hour)
	authAdmin.On("ListUsers", mock.Anything, 1, 100).
		Return([]gotrue.User{naverAuthUser(orphanUserID, old)}, nil)
	userRepo.On("GetByID", orphanUserID).Return(nil, apperrors.ErrNotFound)
	authAdmin.On("DeleteUser", mock.Anything, orphanUserID, false).Return(nil)

	report, err := svc.Run(context.Background(), true)

	require.NoError(t, err)
	require.Len(t, report.Orphans, 1)
	assert.True(t, report.Orphans[0].Deleted)
	assert.Equal(t, 1, report.DeletedCount)
	authAdmin.AssertExpectations(t)
}

func TestReconcileService_Run_GracePeriodSkipsFreshAccounts(t *testing.T) {
	authAdmin := new(MockAuthAdmin)
	userRepo := new(MockUserRepository)
	svc, err := NewReconcileService(authAdmin, userRepo, time.Hour, 100)
	require.NoError(t, err)

	// An in-flight login bridge may not have written its profile row yet.
	fresh := time.Now().Add(-5 * time.Minute)
	authAdmin.On("ListUsers", mock.Anything, 1, 100).
		Return([]gotrue.User{naverAuthUser(orphanUserID, fresh)}, nil)

	report, err := svc.Run(context.Background(), true)

	require.NoError(t, err)
	assert.Empty(t, report.Orphans)
	userRepo.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestReconcileService_Run_SkipsNonNaverAccounts(t *testing.T) {
	authAdmin := new(MockAuthAdmin)
	userRepo := new(MockUserRepository)
	svc, err := NewReconcileService(authAdmin, userRepo, time.Hour, 100)
	require.NoError(t, err)

	old := time.Now().Add(-24 * time.Hour)
	authAdmin.On("ListUsers", mock.Anything, 1, 100).Return([]gotrue.User{
		{ID: orphanUserID, Email: "ops@example.com", CreatedAt: old},
	}, nil)

	report, err := svc.Run(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, 1, report.ScannedUsers)
	assert.Empty(t, report.Orphans)
	userRepo.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestReconcileService_Run_Pagination(t *testing.T) {
	authAdmin := new(MockAuthAdmin)
	userRepo := new(MockUserRepository)
	svc, err := NewReconcileService(authAdmin, userRepo, time.Hour, 2)
	require.NoError(t, err)

	old := time.Now().Add(-24 * time.Hour)
	authAdmin.On("ListUsers", mock.Anything, 1, 2).Return([]gotrue.User{
		naverAuthUser(orphanUserID, old),
		naverAuthUser(linkedUserID, old),
	}, nil)
	// Second page is short, so the scan stops there.
	authAdmin.On("ListUsers", mock.Anything, 2, 2).Return([]gotrue.User{}, nil)
	userRepo.On("GetByID", orphanUserID).Return(nil, apperrors.ErrNotFound)
	userRepo.On("GetByID", linkedUserID).Return(&entity.User{ID: linkedUserID}, nil)

	report, err := svc.Run(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 2, report.ScannedUsers)
	authAdmin.AssertExpectations(t)
}

func TestWriteReportXLSX(t *testing.T) {
	report := &ReconcileReport{
		StartedAt:    time.Now().Add(-time.Minute),
		FinishedAt:   time.Now(),
		ScannedUsers: 3,
		Orphans: []OrphanAccount{
			{AuthUserID: orphanUserID, Email: PlaceholderEmail("123"), CreatedAt: time.Now().Add(-48 * time.Hour), Deleted: true},
		},
		DeletedCount: 1,
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteReportXLSX(report, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Orphans", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Auth User ID", header)

	id, err := f.GetCellValue("Orphans", "A2")
	require.NoError(t, err)
	assert.Equal(t, orphanUserID, id)
}
