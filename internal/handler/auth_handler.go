package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"wateradmin/internal/middleware"
	"wateradmin/internal/model"
	"wateradmin/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthUser is the identity returned to the client.
type AuthUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      AuthUser  `json:"user"`
}

func toAuthUser(u *model.User) AuthUser {
	out := AuthUser{ID: u.ID, Username: u.Username, Role: u.Role.Code}
	if u.Profile != nil {
		out.FullName = u.Profile.FullName
	}
	return out
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} Response{data=AuthResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return ok(c, AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      toAuthUser(result.User),
	}, "login successful")
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=model.User}
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.authService.Me(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return ok(c, user, "")
}

// Logout godoc
// @Summary Logout user
// @Description Revokes the presented access token.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), middleware.Claims(c)); err != nil {
		return err
	}
	return ok(c, nil, "logged out successfully")
}
