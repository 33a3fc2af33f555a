package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/glp1care/companion-api/internal/domain/entity"
	apperrors "github.com/glp1care/companion-api/internal/pkg/errors"
	"github.com/glp1care/companion-api/pkg/gotrue"
)

type accountServiceMocks struct {
	authAdmin  *MockAuthAdmin
	authPublic *MockAuthPublic
	userRepo   *MockUserRepository
	email      *MockEmailService
}

func newAccountServiceForTest(t *testing.T) (*AccountService, *accountServiceMocks) {
	t.Helper()
	m := &accountServiceMocks{
		authAdmin:  new(MockAuthAdmin),
		authPublic: new(MockAuthPublic),
		userRepo:   new(MockUserRepository),
		email:      new(MockEmailService),
	}
	svc, err := NewAccountService(m.authAdmin, m.authPublic, m.userRepo, m.email)
	require.NoError(t, err)
	return svc, m
}

func TestAccountService_DeleteAccount_Success(t *testing.T) {
	svc, m := newAccountServiceForTest(t)

	var callOrder []string
	m.authPublic.On("GetUser", mock.Anything, "valid-token").
		Return(&gotrue.User{ID: testBackendUserID}, nil)
	m.userRepo.On("GetByID", testBackendUserID).
		Return(&entity.User{ID: testBackendUserID, Email: "tester@example.com", Name: "tester"}, nil)
	m.userRepo.On("DeleteByID", testBackendUserID).
		Run(func(args mock.Arguments) { callOrder = append(callOrder, "local") }).
		Return(int64(1), nil)
	m.authAdmin.On("DeleteUser", mock.Anything, testBackendUserID, false).
		Run(func(args mock.Arguments) { callOrder = append(callOrder, "credential") }).
		Return(nil)
	m.email.On("SendAccountDeleted", mock.Anything, "tester@example.com", "tester").Return(nil)

	err := svc.DeleteAccount(context.Background(), "valid-token")

	require.NoError(t, err)
	// Local data goes first so the cascade runs before the credential is gone.
	assert.Equal(t, []string{"local", "credential"}, callOrder)
	m.authAdmin.AssertExpectations(t)
	m.email.AssertExpectations(t)
}

func TestAccountService_DeleteAccount_MissingToken(t *testing.T) {
	svc, m := newAccountServiceForTest(t)

	err := svc.DeleteAccount(context.Background(), "   ")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	m.authPublic.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestAccountService_DeleteAccount_TokenRejected(t *testing.T) {
	svc, m := newAccountServiceForTest(t)

	m.authPublic.On("GetUser", mock.Anything, "stale-token").
		Return(nil, &gotrue.APIError{Status: 401, Message: "invalid JWT"})

	err := svc.DeleteAccount(context.Background(), "stale-token")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	m.userRepo.AssertNotCalled(t, "DeleteByID", mock.Anything)
	m.authAdmin.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountService_DeleteAccount_LocalDeleteFailureAborts(t *testing.T) {
	svc, m := newAccountServiceForTest(t)

	m.authPublic.On("GetUser", mock.Anything, "valid-token").
		Return(&gotrue.User{ID: testBackendUserID}, nil)
	m.userRepo.On("GetByID", testBackendUserID).Return(nil, apperrors.ErrNotFound)
	m.userRepo.On("DeleteByID", testBackendUserID).
		Return(int64(0), errors.New("connection reset"))

	err := svc.DeleteAccount(context.Background(), "valid-token")

	assert.ErrorIs(t, err, ErrAccountDataDeleteFailed)
	// The credential must survive a failed data delete so the caller can retry.
	m.authAdmin.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountService_DeleteAccount_CredentialDeleteFailure(t *testing.T) {
	svc, m := newAccountServiceForTest(t)

	m.authPublic.On("GetUser", mock.Anything, "valid-token").
		Return(&gotrue.User{ID: testBackendUserID}, nil)
	m.userRepo.On("GetByID", testBackendUserID).Return(nil, apperrors.ErrNotFound)
	m.userRepo.On("DeleteByID", testBackendUserID).Return(int64(1), nil)
	m.authAdmin.On("DeleteUser", mock.Anything, testBackendUserID, false).
		Return(&gotrue.APIError{Status: 500, Message: "internal error"})

	err := svc.DeleteAccount(context.Background(), "valid-token")

	assert.ErrorIs(t, err, ErrAccountCredentialOrphaned)
	m.email.AssertNotCalled(t, "SendAccountDeleted", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountService_DeleteAccount_RetryAfterPartialFailure(t *testing.T) {
	svc, m := newAccountServiceForTest(t)

	// The previous attempt removed the local row; this retry only has the
	// auth record left to clean up.
	m.authPublic.On("GetUser", mock.Anything, "valid-token").
		Return(&gotrue.User{ID: testBackendUserID}, nil)
	m.userRepo.On("GetByID", testBackendUserID).Return(nil, apperrors.ErrNotFound)
	m.userRepo.On("DeleteByID", testBackendUserID).Return(int64(0), nil)
	m.authAdmin.On("DeleteUser", mock.Anything, testBackendUserID, false).Return(nil)

	err := svc.DeleteAccount(context.Background(), "valid-token")

	assert.NoError(t, err)
}

func TestAccountService_DeleteAccount_CredentialAlreadyGone(t *testing.T) {
	svc, m := newAccountServiceForTest(t)

	m.authPublic.On("GetUser", mock.Anything, "valid-token").
		Return(&gotrue.User{ID: testBackendUserID}, nil)
	m.userRepo.On("GetByID", testBackendUserID).Return(nil, apperrors.ErrNotFound)
	m.userRepo.On("DeleteByID", testBackendUserID).Return(int64(1), nil)
	m.authAdmin.On("DeleteUser", mock.Anything, testBackendUserID, false).
		Return(&gotrue.APIError{Status: 404, ErrorCode: "user_not_found", Message: "user not found"})

	err := svc.DeleteAccount(context.Background(), "valid-token")

	assert.NoError(t, err)
}

func TestAccountService_DeleteAccount_PlaceholderEmailSkipsGoodbye(t *testing.T) {
	svc, m := newAccountServiceForTest(t)

	m.authPublic.On("GetUser", mock.Anything, "valid-token").
		Return(&gotrue.User{ID: testBackendUserID}, nil)
	m.userRepo.On("GetByID", testBackendUserID).
		Return(&entity.User{ID: testBackendUserID, Email: ""}, nil)
	m.userRepo.On("DeleteByID", testBackendUserID).Return(int64(1), nil)
	m.authAdmin.On("DeleteUser", mock.Anything, testBackendUserID, false).Return(nil)

	err := svc.DeleteAccount(context.Background(), "valid-token")

	require.NoError(t, err)
	m.email.AssertNotCalled(t, "SendAccountDeleted", mock.Anything, mock.Anything, mock.Anything)
}
