package handler

import (
	"github.com/labstack/echo/v4"

	"wateradmin/internal/service"
)

// MasterHandler serves reference data and the stock summary.
type MasterHandler struct {
	master    service.MasterService
	inventory service.InventoryService
}

// NewMasterHandler creates a master data handler.
func NewMasterHandler(master service.MasterService, inventory service.InventoryService) *MasterHandler {
	return &MasterHandler{master: master, inventory: inventory}
}

// WaterTypes godoc
// @Summary List water products
// @Tags master
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]model.WaterProduct}
// @Router /master/water-types [get]
func (h *MasterHandler) WaterTypes(c echo.Context) error {
	rows, err := h.master.WaterTypes(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, rows, "")
}

// Suppliers godoc
// @Summary List suppliers with their delivery persons
// @Tags master
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]model.Supplier}
// @Router /master/suppliers [get]
func (h *MasterHandler) Suppliers(c echo.Context) error {
	rows, err := h.master.Suppliers(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, rows, "")
}

// ReceiptStatuses godoc
// @Summary List receipt statuses
// @Tags master
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]model.ReceiptStatus}
// @Router /master/receipt-statuses [get]
func (h *MasterHandler) ReceiptStatuses(c echo.Context) error {
	rows, err := h.master.ReceiptStatuses(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, rows, "")
}

// DeliveryStatuses godoc
// @Summary List delivery statuses
// @Tags master
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]model.DeliveryStatus}
// @Router /master/delivery-statuses [get]
func (h *MasterHandler) DeliveryStatuses(c echo.Context) error {
	rows, err := h.master.DeliveryStatuses(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, rows, "")
}

// Roles godoc
// @Summary List roles
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]model.Role}
// @Router /roles [get]
func (h *MasterHandler) Roles(c echo.Context) error {
	rows, err := h.master.Roles(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, rows, "")
}

// InventorySummary godoc
// @Summary Stock on hand per product
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]model.InventoryLine}
// @Router /inventory/summary [get]
func (h *MasterHandler) InventorySummary(c echo.Context) error {
	lines, err := h.inventory.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, lines, "")
}
