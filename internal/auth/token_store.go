package auth

import (
	"context"
	"strconv"
	"time"

	"wateradmin/internal/cache"
)

const (
	revokedTokenKeyPrefix = "revoked:access_token:"
	revokedUserKeyPrefix  = "revoked:user:"
)

// TokenStoreInterface defines the interface for token revocation operations.
type TokenStoreInterface interface {
	RevokeAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	RevokeUserTokens(ctx context.Context, userID uint, at time.Time, ttl time.Duration) error
	UserTokensRevokedAt(ctx context.Context, userID uint) (time.Time, error)
}

// TokenStore keeps revoked token ids in Redis until the token would have expired.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// RevokeAccessToken marks a token id as revoked for ttl.
func (s *TokenStore) RevokeAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsAccessTokenRevoked checks if a token id was revoked.
func (s *TokenStore) IsAccessTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	data, err := s.cache.Get(ctx, revokedTokenKeyPrefix+tokenID)
	if err != nil {
		return false, nil // Not revoked if error (fail safe)
	}
	return data != nil, nil
}

// RevokeUserTokens invalidates every token of userID issued at or before at.
// ttl should cover the longest token lifetime.
func (s *TokenStore) RevokeUserTokens(ctx context.Context, userID uint, at time.Time, ttl time.Duration) error {
	if userID == 0 || ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, userRevokedKey(userID), []byte(strconv.FormatInt(at.Unix(), 10)), ttl)
}

// UserTokensRevokedAt returns the cutoff recorded by RevokeUserTokens, or the
// zero time when none is set.
func (s *TokenStore) UserTokensRevokedAt(ctx context.Context, userID uint) (time.Time, error) {
	data, err := s.cache.Get(ctx, userRevokedKey(userID))
	if err != nil || data == nil {
		return time.Time{}, nil
	}
	sec, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return time.Time{}, nil
	}
	return time.Unix(sec, 0), nil
}

func userRevokedKey(userID uint) string {
	return revokedUserKeyPrefix + strconv.FormatUint(uint64(userID), 10)
}
