package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"wateradmin/internal/auth"
	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/model"
	"wateradmin/internal/repository"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Me(ctx context.Context, userID uint) (*model.User, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	users      repository.UserReader
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserReader, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
		now:        time.Now,
	}
}

// Login verifies credentials and issues an access token.
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, apperrors.Validation("username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(user.ID, user.Username, user.Role.Code)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Me returns the live account behind a token.
func (s *authService) Me(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.ErrUnauthenticated
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	return s.tokenStore.RevokeAccessToken(ctx, claims.ID, ttl)
}
