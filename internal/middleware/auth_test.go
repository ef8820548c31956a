package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wateradmin/internal/auth"
	"wateradmin/internal/cache"
	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/model"
)

func newGateServer(t *testing.T) (*echo.Echo, *auth.JWTService, *auth.TokenStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := auth.NewTokenStore(cache.New(mr.Addr(), "", 0))
	jwtService := auth.NewJWTService("gate-secret", time.Hour)

	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		httpErr := apperrors.MapErrorToHTTP(err)
		_ = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	ok := func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"user_id": UserID(c)})
	}
	g := e.Group("/api", Authenticate(jwtService, store))
	g.GET("/any", ok, RequireRole(model.RoleUser))
	g.GET("/managers", ok, RequireRole(model.RoleManager))
	g.GET("/admins", ok, RequireRole(model.RoleAdmin))
	return e, jwtService, store
}

func do(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate_MissingOrInvalidToken(t *testing.T) {
	e, _, _ := newGateServer(t)

	assert.Equal(t, http.StatusUnauthorized, do(e, "/api/any", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, "/api/any", "not-a-jwt").Code)

	foreign, _, err := auth.NewJWTService("other", time.Hour).GenerateAccessToken(1, "x", model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(e, "/api/admins", foreign).Code)
}

func TestRequireRole_Hierarchy(t *testing.T) {
	e, jwtService, _ := newGateServer(t)

	tokens := map[string]string{}
	for i, role := range []string{model.RoleUser, model.RoleManager, model.RoleAdmin} {
		tok, _, err := jwtService.GenerateAccessToken(uint(i+1), role, role)
		require.NoError(t, err)
		tokens[role] = tok
	}

	tests := []struct {
		role string
		path string
		want int
	}{
		{model.RoleUser, "/api/any", http.StatusOK},
		{model.RoleUser, "/api/managers", http.StatusForbidden},
		{model.RoleUser, "/api/admins", http.StatusForbidden},
		{model.RoleManager, "/api/any", http.StatusOK},
		{model.RoleManager, "/api/managers", http.StatusOK},
		{model.RoleManager, "/api/admins", http.StatusForbidden},
		{model.RoleAdmin, "/api/any", http.StatusOK},
		{model.RoleAdmin, "/api/managers", http.StatusOK},
		{model.RoleAdmin, "/api/admins", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.role+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, do(e, tt.path, tokens[tt.role]).Code)
		})
	}
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	e, jwtService, store := newGateServer(t)

	token, _, err := jwtService.GenerateAccessToken(9, "carol", model.RoleUser)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, do(e, "/api/any", token).Code)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	require.NoError(t, store.RevokeAccessToken(context.Background(), claims.ID, time.Hour))

	assert.Equal(t, http.StatusUnauthorized, do(e, "/api/any", token).Code)
}

func TestAuthenticate_UserRevocationCutoff(t *testing.T) {
	e, jwtService, store := newGateServer(t)
	ctx := context.Background()

	token, _, err := jwtService.GenerateAccessToken(9, "carol", model.RoleManager)
	require.NoError(t, err)
	other, _, err := jwtService.GenerateAccessToken(10, "dave", model.RoleManager)
	require.NoError(t, err)

	require.NoError(t, store.RevokeUserTokens(ctx, 9, time.Now().Add(-time.Minute), time.Hour))
	assert.Equal(t, http.StatusOK, do(e, "/api/managers", token).Code, "issued after the cutoff")

	require.NoError(t, store.RevokeUserTokens(ctx, 9, time.Now(), time.Hour))
	assert.Equal(t, http.StatusUnauthorized, do(e, "/api/managers", token).Code)
	assert.Equal(t, http.StatusOK, do(e, "/api/managers", other).Code)
}
