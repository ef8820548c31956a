package handler

import (
	"github.com/labstack/echo/v4"

	"wateradmin/internal/service"
)

// DepartmentHandler handles department endpoints.
type DepartmentHandler struct {
	svc service.DepartmentService
}

// NewDepartmentHandler creates a department handler.
func NewDepartmentHandler(svc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{svc: svc}
}

// DepartmentRequest is the create payload.
type DepartmentRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description"`
}

// UpdateDepartmentRequest is the partial update payload.
type UpdateDepartmentRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=150"`
	Description *string `json:"description"`
}

// ListDepartments godoc
// @Summary List departments with member counts
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name filter"
// @Success 200 {object} Response{data=[]model.Department}
// @Router /departments [get]
func (h *DepartmentHandler) ListDepartments(c echo.Context) error {
	depts, err := h.svc.List(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return ok(c, depts, "")
}

// GetDepartment godoc
// @Summary Get department
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} Response{data=model.Department}
// @Failure 404 {object} errors.ErrorResponse
// @Router /departments/{id} [get]
func (h *DepartmentHandler) GetDepartment(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	dept, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, dept, "")
}

// CreateDepartment godoc
// @Summary Create department
// @Tags departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DepartmentRequest true "Department"
// @Success 201 {object} Response{data=model.Department}
// @Failure 400 {object} errors.ErrorResponse
// @Router /departments [post]
func (h *DepartmentHandler) CreateDepartment(c echo.Context) error {
	var req DepartmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	dept, err := h.svc.Create(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return created(c, dept, "department created")
}

// UpdateDepartment godoc
// @Summary Update department
// @Tags departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Param body body UpdateDepartmentRequest true "Fields"
// @Success 200 {object} Response{data=model.Department}
// @Router /departments/{id} [put]
func (h *DepartmentHandler) UpdateDepartment(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req UpdateDepartmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	dept, err := h.svc.Update(c.Request().Context(), id, req.Name, req.Description)
	if err != nil {
		return err
	}
	return ok(c, dept, "department updated")
}

// DeleteDepartment godoc
// @Summary Delete department
// @Description Fails while users or deliveries still reference the department.
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Router /departments/{id} [delete]
func (h *DepartmentHandler) DeleteDepartment(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return ok(c, nil, "department deleted")
}
