package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"wateradmin/internal/auth"
	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/model"
)

// MockUserReader is a mock implementation of repository.UserReader.
type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserReader) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) RevokeAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenStore) RevokeUserTokens(ctx context.Context, userID uint, at time.Time, ttl time.Duration) error {
	args := m.Called(ctx, userID, at, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) UserTokensRevokedAt(ctx context.Context, userID uint) (time.Time, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(time.Time), args.Error(1)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Login(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	activeAdmin := &model.User{
		ID:           1,
		Username:     "admin",
		PasswordHash: hashed(t, "secret123"),
		IsActive:     true,
		Role:         model.Role{ID: 3, Code: model.RoleAdmin},
	}
	inactive := &model.User{
		ID:           2,
		Username:     "gone",
		PasswordHash: hashed(t, "secret123"),
		IsActive:     false,
		Role:         model.Role{ID: 1, Code: model.RoleUser},
	}

	tests := []struct {
		name     string
		username string
		password string
		setup    func(*MockUserReader)
		wantErr  error
	}{
		{
			name:     "successful login",
			username: "admin",
			password: "secret123",
			setup: func(m *MockUserReader) {
				m.On("FindByUsername", mock.Anything, "admin").Return(activeAdmin, nil)
			},
		},
		{
			name:     "unknown user",
			username: "nobody",
			password: "secret123",
			setup: func(m *MockUserReader) {
				m.On("FindByUsername", mock.Anything, "nobody").Return(nil, apperrors.ErrUserNotFound)
			},
			wantErr: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "admin",
			password: "wrong",
			setup: func(m *MockUserReader) {
				m.On("FindByUsername", mock.Anything, "admin").Return(activeAdmin, nil)
			},
			wantErr: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "inactive account",
			username: "gone",
			password: "secret123",
			setup: func(m *MockUserReader) {
				m.On("FindByUsername", mock.Anything, "gone").Return(inactive, nil)
			},
			wantErr: apperrors.ErrAccountInactive,
		},
		{
			name:     "store failure is not masked",
			username: "admin",
			password: "secret123",
			setup: func(m *MockUserReader) {
				m.On("FindByUsername", mock.Anything, "admin").Return(nil, errors.New("connection refused"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserReader)
			tt.setup(users)
			svc := NewAuthService(users, jwtService, new(MockTokenStore))

			result, err := svc.Login(context.Background(), tt.username, tt.password)
			switch {
			case tt.name == "store failure is not masked":
				require.Error(t, err)
				assert.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
			default:
				require.NoError(t, err)
				claims, err := jwtService.ValidateToken(result.Token)
				require.NoError(t, err)
				assert.Equal(t, uint(1), claims.UserID)
				assert.Equal(t, model.RoleAdmin, claims.Role)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginMissingFields(t *testing.T) {
	svc := NewAuthService(new(MockUserReader), auth.NewJWTService("s", time.Hour), new(MockTokenStore))
	_, err := svc.Login(context.Background(), "", "x")
	var httpErr *apperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.StatusCode)
}

func TestAuthService_Logout(t *testing.T) {
	store := new(MockTokenStore)
	svc := NewAuthService(new(MockUserReader), auth.NewJWTService("s", time.Hour), store).(*authService)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	claims := &auth.Claims{UserID: 1, Role: model.RoleUser}
	claims.ID = "jti-1"
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(30 * time.Minute))

	store.On("RevokeAccessToken", mock.Anything, "jti-1", 30*time.Minute).Return(nil)
	require.NoError(t, svc.Logout(context.Background(), claims))
	store.AssertExpectations(t)

	assert.ErrorIs(t, svc.Logout(context.Background(), nil), apperrors.ErrUnauthenticated)
}
