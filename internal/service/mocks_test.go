package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/glp1care/companion-api/internal/domain/entity"
	"github.com/glp1care/companion-api/internal/provider/naver"
	"github.com/glp1care/companion-api/pkg/gotrue"
)

// ============================================================================
// Mocks shared by the service tests
// ============================================================================

// MockNaverVerifier implements NaverVerifier
type MockNaverVerifier struct {
	mock.Mock
}

func (m *MockNaverVerifier) GetProfile(ctx context.Context, accessToken string) (*naver.Profile, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*naver.Profile), args.Error(1)
}

// MockAuthAdmin implements AuthAdminAPI
type MockAuthAdmin struct {
	mock.Mock
}

func (m *MockAuthAdmin) CreateUser(ctx context.Context, params gotrue.CreateUserParams) (*gotrue.User, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gotrue.User), args.Error(1)
}

func (m *MockAuthAdmin) GenerateLink(ctx context.Context, params gotrue.GenerateLinkParams) (*gotrue.GeneratedLink, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gotrue.GeneratedLink), args.Error(1)
}

func (m *MockAuthAdmin) DeleteUser(ctx context.Context, id string, shouldSoftDelete bool) error {
	args := m.Called(ctx, id, shouldSoftDelete)
	return args.Error(0)
}

func (m *MockAuthAdmin) ListUsers(ctx context.Context, page, perPage int) ([]gotrue.User, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gotrue.User), args.Error(1)
}

// MockAuthPublic implements AuthPublicAPI
type MockAuthPublic struct {
	mock.Mock
}

func (m *MockAuthPublic) VerifyOTP(ctx context.Context, params gotrue.VerifyOTPParams) (*gotrue.Session, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gotrue.Session), args.Error(1)
}

func (m *MockAuthPublic) GetUser(ctx context.Context, accessToken string) (*gotrue.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gotrue.User), args.Error(1)
}

// MockUserRepository implements repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByOAuthIdentity(provider, oauthUserID string) (*entity.User, error) {
	args := m.Called(provider, oauthUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) DeleteByID(id string) (int64, error) {
	args := m.Called(id)
	return args.Get(0).(int64), args.Error(1)
}

// MockConsentRecordRepository implements repository.ConsentRecordRepository
type MockConsentRecordRepository struct {
	mock.Mock
}

func (m *MockConsentRecordRepository) Create(record *entity.ConsentRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockConsentRecordRepository) GetByUserID(userID string) (*entity.ConsentRecord, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ConsentRecord), args.Error(1)
}

// MockNotificationSettingRepository implements repository.NotificationSettingRepository
type MockNotificationSettingRepository struct {
	mock.Mock
}

func (m *MockNotificationSettingRepository) CreateDefaults(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockNotificationSettingRepository) GetByUserID(userID string) (*entity.NotificationSetting, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.NotificationSetting), args.Error(1)
}

// MockEmailService implements EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWelcome(ctx context.Context, toEmail, name string) error {
	args := m.Called(ctx, toEmail, name)
	return args.Error(0)
}

func (m *MockEmailService) SendAccountDeleted(ctx context.Context, toEmail, name string) error {
	args := m.Called(ctx, toEmail, name)
	return args.Error(0)
}
