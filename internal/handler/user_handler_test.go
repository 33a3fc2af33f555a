package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/glp1care/companion-api/internal/domain/entity"
	apperrors "github.com/glp1care/companion-api/internal/pkg/errors"
)

// MockUserRepository implements repository.UserRepository for handler tests.
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

func newUserRouter(userRepo *MockUserRepository, userID string) *gin.Engine {
	router := gin.New()
	if userID != "" {
		router.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
		})
	}
	router.GET("/api/users/me", NewUserHandler(userRepo).GetMe)
	return router
}

func TestGetMe_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("GetByID", "user-1").Return(&entity.User{
		ID:            "user-1",
		OAuthProvider: "naver",
		Name:          "tester",
		Email:         "tester@example.com",
	}, nil)
	router := newUserRouter(userRepo, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "user-1", user["id"])
}

func TestGetMe_MissingContextUserID(t *testing.T) {
	router := newUserRouter(new(MockUserRepository), "")

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMe_ProfileNotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("GetByID", "user-1").Return(nil, apperrors.ErrNotFound)
	router := newUserRouter(userRepo, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
}

func TestGetMe_RepositoryError(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("GetByID", "user-1").Return(nil, assert.AnError)
	router := newUserRouter(userRepo, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}
