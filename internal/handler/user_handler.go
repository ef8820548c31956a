package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"wateradmin/internal/middleware"
	"wateradmin/internal/repository"
	"wateradmin/internal/service"
)

// UserHandler bundles the user directory endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserRequest is the payload for a new account.
type CreateUserRequest struct {
	Username     string `json:"username" validate:"required,max=100"`
	Password     string `json:"password" validate:"required,min=6"`
	Role         string `json:"role" validate:"omitempty,max=20"`
	FullName     string `json:"full_name" validate:"max=255"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"max=30"`
	DepartmentID *uint  `json:"department_id"`
}

// UpdateUserRequest updates profile fields.
type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
}

// ChangeRoleRequest sets a user's role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,max=20"`
}

// ChangeDepartmentRequest moves a user; a null department clears membership.
type ChangeDepartmentRequest struct {
	DepartmentID *uint `json:"department_id"`
}

// SetStatusRequest sets the active flag; omitting it toggles.
type SetStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Username or full name"
// @Param role query string false "Role code"
// @Param department_id query int false "Department"
// @Param active query bool false "Active flag"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} Response
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	filter := repository.UserFilter{
		Search: c.QueryParam("search"),
		Role:   c.QueryParam("role"),
		Page:   queryPage(c),
	}
	if v := c.QueryParam("department_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			dept := uint(id)
			filter.DepartmentID = &dept
		}
	}
	if v := c.QueryParam("active"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			filter.Active = &active
		}
	}

	result, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ok(c, result, "")
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} Response{data=model.User}
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, user, "")
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body CreateUserRequest true "User payload"
// @Success 201 {object} Response{data=model.User}
// @Failure 400 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.svc.Create(c.Request().Context(), service.CreateUserInput{
		Username:     req.Username,
		Password:     req.Password,
		Role:         req.Role,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return created(c, user, "user created")
}

// UpdateUser godoc
// @Summary Update user profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param user body UpdateUserRequest true "Profile fields"
// @Success 200 {object} Response{data=model.User}
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.svc.UpdateProfile(c.Request().Context(), id, service.ProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}
	return ok(c, user, "user updated")
}

// ChangeRole godoc
// @Summary Change user role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body ChangeRoleRequest true "Role"
// @Success 200 {object} Response{data=model.User}
// @Router /users/{id}/role [patch]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req ChangeRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.svc.ChangeRole(c.Request().Context(), id, req.Role)
	if err != nil {
		return err
	}
	return ok(c, user, "role updated")
}

// ChangeDepartment godoc
// @Summary Change user department
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body ChangeDepartmentRequest true "Department"
// @Success 200 {object} Response{data=model.User}
// @Router /users/{id}/department [patch]
func (h *UserHandler) ChangeDepartment(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req ChangeDepartmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.svc.ChangeDepartment(c.Request().Context(), id, req.DepartmentID)
	if err != nil {
		return err
	}
	return ok(c, user, "department updated")
}

// SetStatus godoc
// @Summary Activate, deactivate or toggle a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body SetStatusRequest false "Active flag"
// @Success 200 {object} Response{data=model.User}
// @Router /users/{id}/status [patch]
func (h *UserHandler) SetStatus(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req SetStatusRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}
	user, err := h.svc.SetActive(c.Request().Context(), middleware.UserID(c), id, req.IsActive)
	if err != nil {
		return err
	}
	return ok(c, user, "status updated")
}

// DeleteUser godoc
// @Summary Move a user to the trash
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	affected, err := h.svc.SoftDelete(c.Request().Context(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	return ok(c, map[string]int64{"affected": affected}, "user moved to trash")
}

// ListTrash godoc
// @Summary List trashed users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Router /users/trash [get]
func (h *UserHandler) ListTrash(c echo.Context) error {
	entries, err := h.svc.ListTrash(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, entries, "")
}

// RestoreUser godoc
// @Summary Restore a trashed user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} Response{data=model.User}
// @Router /users/{id}/restore [patch]
func (h *UserHandler) RestoreUser(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.Restore(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, user, "user restored")
}

// DeleteUserPermanent godoc
// @Summary Permanently delete a trashed user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/permanent [delete]
func (h *UserHandler) DeleteUserPermanent(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeletePermanent(c.Request().Context(), middleware.UserID(c), id); err != nil {
		return err
	}
	return ok(c, nil, "user permanently deleted")
}
