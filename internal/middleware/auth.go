package middleware

import (
	"context"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"wateradmin/internal/auth"
	apperrors "wateradmin/internal/errors"
)

// Context keys set by Authenticate.
const (
	ContextKeyClaims   = "claims"
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyRole     = "role"
)

// Authenticate verifies the bearer token, rejects revoked tokens and exposes the
// caller's identity on the echo context.
func Authenticate(jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		ContextKey: ContextKeyClaims,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.ErrUnauthenticated
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(func(c echo.Context) error {
			claims, ok := c.Get(ContextKeyClaims).(*auth.Claims)
			if !ok {
				return apperrors.ErrUnauthenticated
			}

			revoked, err := isRevoked(c.Request().Context(), tokenStore, claims)
			if err != nil {
				return err
			}
			if revoked {
				return apperrors.ErrUnauthenticated
			}

			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyUsername, claims.Username)
			c.Set(ContextKeyRole, claims.Role)
			return next(c)
		})
	}
}

// isRevoked reports whether the token was logged out, or issued no later than
// the owner's last deletion, deactivation or role change.
func isRevoked(ctx context.Context, tokenStore auth.TokenStoreInterface, claims *auth.Claims) (bool, error) {
	revoked, err := tokenStore.IsAccessTokenRevoked(ctx, claims.ID)
	if err != nil || revoked {
		return revoked, err
	}
	cutoff, err := tokenStore.UserTokensRevokedAt(ctx, claims.UserID)
	if err != nil || cutoff.IsZero() {
		return false, err
	}
	return claims.IssuedAt == nil || !claims.IssuedAt.After(cutoff), nil
}

// UserID returns the authenticated user id, or 0 outside an authenticated route.
func UserID(c echo.Context) uint {
	id, _ := c.Get(ContextKeyUserID).(uint)
	return id
}

// Claims returns the verified token claims, or nil outside an authenticated route.
func Claims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(ContextKeyClaims).(*auth.Claims)
	return claims
}
