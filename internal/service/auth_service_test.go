package service

import (
	"context"
	"testing"
	"time"

	"github.com/promptdeck/promptdeck-backend/internal/common"
	"github.com/promptdeck/promptdeck-backend/internal/domain"
	"github.com/promptdeck/promptdeck-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserStore is a mock implementation of UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func testJWTManager() *jwt.Manager {
	return jwt.NewManager("test-secret", 15*time.Minute, 24*time.Hour)
}

func activeUser(password string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &domain.User{
		ID:       "u1",
		Username: "creator1",
		Email:    "creator1@example.com",
		Password: string(hash),
		Role:     domain.RoleCreator,
		Status:   "active",
	}
}

func TestLogin_Success(t *testing.T) {
	users := new(MockUserStore)
	svc := NewAuthService(users, testJWTManager())

	users.On("FindByUsername", "creator1").Return(activeUser("hunter22"), nil)

	resp, err := svc.Login(context.Background(), "creator1", "hunter22")

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// Access token carries the role for the authorization gate
	claims, err := testJWTManager().VerifyToken(resp.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, domain.RoleCreator, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(MockUserStore)
	svc := NewAuthService(users, testJWTManager())

	users.On("FindByUsername", "creator1").Return(activeUser("hunter22"), nil)

	_, err := svc.Login(context.Background(), "creator1", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	users := new(MockUserStore)
	svc := NewAuthService(users, testJWTManager())

	users.On("FindByUsername", "ghost").Return(nil, common.ErrUserNotFound)

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestRegister_AssignsUserRole(t *testing.T) {
	users := new(MockUserStore)
	svc := NewAuthService(users, testJWTManager())

	users.On("FindByUsername", "newbie").Return(nil, common.ErrUserNotFound)
	users.On("Create", mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Username: "newbie",
		Email:    "newbie@example.com",
		Password: "longenough",
	})

	assert.NoError(t, err)
	// Registration can never mint an elevated role
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "longenough", user.Password)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	users := new(MockUserStore)
	svc := NewAuthService(users, testJWTManager())

	users.On("FindByUsername", "creator1").Return(activeUser("x"), nil)

	_, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Username: "creator1",
		Email:    "other@example.com",
		Password: "longenough",
	})
	assert.ErrorIs(t, err, common.ErrUserAlreadyExists)
}

func TestRefresh_ReadsRoleFromStorage(t *testing.T) {
	users := new(MockUserStore)
	manager := testJWTManager()
	svc := NewAuthService(users, manager)

	refreshToken, err := manager.GenerateRefreshToken("u1")
	assert.NoError(t, err)

	// Role was changed to admin after the refresh token was issued; the new
	// access token must carry the stored role, not a stale one.
	promoted := activeUser("x")
	promoted.Role = domain.RoleAdmin
	users.On("FindByID", "u1").Return(promoted, nil)

	resp, err := svc.Refresh(context.Background(), refreshToken)
	assert.NoError(t, err)

	claims, err := manager.VerifyToken(resp.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestRefresh_InvalidToken(t *testing.T) {
	users := new(MockUserStore)
	svc := NewAuthService(users, testJWTManager())

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
