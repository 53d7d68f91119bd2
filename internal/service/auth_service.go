package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/promptdeck/promptdeck-backend/internal/common"
	"github.com/promptdeck/promptdeck-backend/internal/domain"
	"github.com/promptdeck/promptdeck-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence contract for accounts
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// AuthService is the single credential-verification contract: bearer tokens
// in, identity plus role out. Passwords are bcrypt hashes, nothing else.
type AuthService struct {
	users      UserStore
	jwtManager *jwt.Manager
	timeout    time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, jwtManager *jwt.Manager) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		timeout:    5 * time.Second,
	}
}

// LoginResponse carries the issued token pair
type LoginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// Register creates a new account with role user
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, common.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:       uuid.NewString(),
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		Role:     domain.RoleUser,
		Status:   "active",
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and issues a token pair
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}

	if user.Status == "banned" {
		return nil, errors.New("account is banned")
	}
	if user.Status == "inactive" {
		return nil, errors.New("account is inactive")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh validates a refresh token and issues a new token pair. The role is
// read fresh from storage, not from the old token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	return s.issueTokens(user)
}

// GetUser resolves an authenticated user id to its account
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.users.FindByID(ctx, id)
}

func (s *AuthService) issueTokens(user *domain.User) (*LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &LoginResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
