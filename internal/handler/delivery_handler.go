package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"wateradmin/internal/middleware"
	"wateradmin/internal/repository"
	"wateradmin/internal/service"
)

// DeliveryHandler handles delivery ledger endpoints.
type DeliveryHandler struct {
	svc service.DeliveryService
}

// NewDeliveryHandler creates a delivery handler.
func NewDeliveryHandler(svc service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{svc: svc}
}

// CreateDeliveryRequest records stock leaving the warehouse. delivery_code is
// generated when omitted.
type CreateDeliveryRequest struct {
	DeliveryCode   string     `json:"delivery_code" validate:"max=50"`
	RecipientName  string     `json:"recipient_name" validate:"required,max=200"`
	DepartmentID   *uint      `json:"department_id"`
	WaterProductID Ref        `json:"water_product_id" validate:"required"`
	Quantity       int        `json:"quantity" validate:"required,gt=0"`
	DeliveryTime   *time.Time `json:"delivery_time"`
	Status         Ref        `json:"status"`
	Note           *string    `json:"note" validate:"omitempty,max=1000"`
}

// UpdateDeliveryRequest is a partial update; omitted fields are unchanged.
type UpdateDeliveryRequest struct {
	RecipientName   *string    `json:"recipient_name" validate:"omitempty,max=200"`
	DepartmentID    *uint      `json:"department_id"`
	ClearDepartment bool       `json:"clear_department"`
	WaterProductID  Ref        `json:"water_product_id"`
	Quantity        *int       `json:"quantity"`
	DeliveryTime    *time.Time `json:"delivery_time"`
	Note            *string    `json:"note" validate:"omitempty,max=1000"`
}

// ListDeliveries godoc
// @Summary List deliveries
// @Tags deliveries
// @Produce json
// @Security BearerAuth
// @Param search query string false "Code, recipient, department or product"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} Response
// @Router /deliveries [get]
func (h *DeliveryHandler) ListDeliveries(c echo.Context) error {
	result, err := h.svc.List(c.Request().Context(), repository.DeliveryFilter{
		Search: c.QueryParam("search"),
		Page:   queryPage(c),
	})
	if err != nil {
		return err
	}
	return ok(c, result, "")
}

// GetDelivery godoc
// @Summary Get delivery
// @Tags deliveries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Delivery ID"
// @Success 200 {object} Response{data=model.Delivery}
// @Failure 404 {object} errors.ErrorResponse
// @Router /deliveries/{id} [get]
func (h *DeliveryHandler) GetDelivery(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	delivery, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, delivery, "")
}

// CreateDelivery godoc
// @Summary Create delivery
// @Tags deliveries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateDeliveryRequest true "Delivery"
// @Success 201 {object} Response{data=model.Delivery}
// @Failure 400 {object} errors.ErrorResponse
// @Router /deliveries [post]
func (h *DeliveryHandler) CreateDelivery(c echo.Context) error {
	var req CreateDeliveryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	quantity := req.Quantity
	delivery, err := h.svc.Create(c.Request().Context(), service.DeliveryInput{
		DeliveryCode:  req.DeliveryCode,
		RecipientName: &req.RecipientName,
		DepartmentID:  req.DepartmentID,
		Product:       req.WaterProductID.ptr(),
		Quantity:      &quantity,
		DeliveryTime:  req.DeliveryTime,
		Status:        req.Status.ptr(),
		Note:          req.Note,
		CreatedBy:     middleware.UserID(c),
	})
	if err != nil {
		return err
	}
	return created(c, delivery, "delivery created")
}

// UpdateDelivery godoc
// @Summary Update delivery
// @Tags deliveries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Delivery ID"
// @Param body body UpdateDeliveryRequest true "Fields"
// @Success 200 {object} Response{data=model.Delivery}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /deliveries/{id} [put]
func (h *DeliveryHandler) UpdateDelivery(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req UpdateDeliveryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	delivery, err := h.svc.Update(c.Request().Context(), id, service.DeliveryInput{
		RecipientName: req.RecipientName,
		DepartmentID:  req.DepartmentID,
		ClearDept:     req.ClearDepartment,
		Product:       req.WaterProductID.ptr(),
		Quantity:      req.Quantity,
		DeliveryTime:  req.DeliveryTime,
		Note:          req.Note,
	})
	if err != nil {
		return err
	}
	return ok(c, delivery, "delivery updated")
}

// UpdateDeliveryStatus godoc
// @Summary Set delivery status
// @Tags deliveries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Delivery ID"
// @Param body body UpdateStatusRequest true "Status"
// @Success 200 {object} Response{data=model.Delivery}
// @Failure 400 {object} errors.ErrorResponse
// @Router /deliveries/{id}/status [patch]
func (h *DeliveryHandler) UpdateDeliveryStatus(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	delivery, err := h.svc.UpdateStatus(c.Request().Context(), id, string(req.Status))
	if err != nil {
		return err
	}
	return ok(c, delivery, "status updated")
}

// DeleteDelivery godoc
// @Summary Move a delivery to the trash
// @Tags deliveries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Delivery ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /deliveries/{id} [delete]
func (h *DeliveryHandler) DeleteDelivery(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	affected, err := h.svc.SoftDelete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, map[string]int64{"affected": affected}, "delivery moved to trash")
}

// ListTrash godoc
// @Summary List trashed deliveries
// @Tags deliveries
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Router /deliveries/trash [get]
func (h *DeliveryHandler) ListTrash(c echo.Context) error {
	entries, err := h.svc.ListTrash(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, entries, "")
}

// RestoreDelivery godoc
// @Summary Restore a trashed delivery
// @Tags deliveries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Delivery ID"
// @Success 200 {object} Response{data=model.Delivery}
// @Router /deliveries/{id}/restore [patch]
func (h *DeliveryHandler) RestoreDelivery(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	delivery, err := h.svc.Restore(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, delivery, "delivery restored")
}

// DeleteDeliveryPermanent godoc
// @Summary Permanently delete a trashed delivery
// @Tags deliveries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Delivery ID"
// @Success 200 {object} Response
// @Router /deliveries/{id}/permanent [delete]
func (h *DeliveryHandler) DeleteDeliveryPermanent(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeletePermanent(c.Request().Context(), id); err != nil {
		return err
	}
	return ok(c, nil, "delivery permanently deleted")
}

// QRImage godoc
// @Summary Delivery label as QR PNG
// @Tags deliveries
// @Produce png
// @Security BearerAuth
// @Param id path int true "Delivery ID"
// @Param size query int false "Image size in pixels (128-1024)"
// @Success 200 {file} binary
// @Router /deliveries/{id}/qr-image [get]
func (h *DeliveryHandler) QRImage(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	payload, err := h.svc.QRPayload(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return renderQR(c, payload)
}
