package auth

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wateradmin/internal/cache"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken(7, "alice", "MANAGER")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "MANAGER", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.GenerateAccessToken(1, "bob", "USER")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	other := NewJWTService("other-secret", time.Hour)
	token, _, err := other.GenerateAccessToken(1, "bob", "ADMIN")
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsMissingRole(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	token, _, err := svc.GenerateAccessToken(1, "bob", "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenStore_Revoke(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewTokenStore(cache.New(mr.Addr(), "", 0))
	ctx := context.Background()

	revoked, err := store.IsAccessTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.RevokeAccessToken(ctx, "jti-1", time.Minute))
	revoked, err = store.IsAccessTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = store.IsAccessTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenStore_RevokeUserTokens(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewTokenStore(cache.New(mr.Addr(), "", 0))
	ctx := context.Background()

	cutoff, err := store.UserTokensRevokedAt(ctx, 4)
	require.NoError(t, err)
	assert.True(t, cutoff.IsZero())

	at := time.Date(2024, 4, 5, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.RevokeUserTokens(ctx, 4, at, time.Hour))
	cutoff, err = store.UserTokensRevokedAt(ctx, 4)
	require.NoError(t, err)
	assert.True(t, at.Equal(cutoff))

	other, err := store.UserTokensRevokedAt(ctx, 5)
	require.NoError(t, err)
	assert.True(t, other.IsZero())

	mr.FastForward(2 * time.Hour)
	cutoff, err = store.UserTokensRevokedAt(ctx, 4)
	require.NoError(t, err)
	assert.True(t, cutoff.IsZero())
}
