package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"wateradmin/internal/export"
	"wateradmin/internal/label"
	"wateradmin/internal/middleware"
	"wateradmin/internal/model"
	"wateradmin/internal/repository"
	"wateradmin/internal/service"
)

const maxExportPages = 50

// ReceiptHandler handles receipt lot endpoints.
type ReceiptHandler struct {
	svc service.ReceiptService
}

// NewReceiptHandler creates a receipt handler.
func NewReceiptHandler(svc service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{svc: svc}
}

// CreateReceiptRequest is the payload for a new lot. water_product_id may be a
// numeric id or an exact product name.
type CreateReceiptRequest struct {
	SupplierName       string     `json:"supplier_name" validate:"required,max=200"`
	DeliveryPersonName string     `json:"delivery_person_name" validate:"required,max=200"`
	WaterProductID     Ref        `json:"water_product_id" validate:"required"`
	Quantity           int        `json:"quantity" validate:"required,gt=0"`
	ReceiptDate        *time.Time `json:"receipt_date"`
}

// UpdateStatusRequest accepts a status code, name, id or one of confirm/cancel/process.
type UpdateStatusRequest struct {
	Status Ref `json:"status" validate:"required"`
}

// ListReceipts godoc
// @Summary List receipt lots
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param search query string false "Lot code, supplier, delivery person or product"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} Response
// @Router /receipts [get]
func (h *ReceiptHandler) ListReceipts(c echo.Context) error {
	result, err := h.svc.List(c.Request().Context(), repository.ReceiptFilter{
		Search: c.QueryParam("search"),
		Page:   queryPage(c),
	})
	if err != nil {
		return err
	}
	return ok(c, result, "")
}

// GetReceipt godoc
// @Summary Get receipt lot
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Success 200 {object} Response{data=model.ReceiptLot}
// @Failure 404 {object} errors.ErrorResponse
// @Router /receipts/{id} [get]
func (h *ReceiptHandler) GetReceipt(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	lot, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, lot, "")
}

// CreateReceipt godoc
// @Summary Create receipt lot
// @Description Upserts supplier and delivery person, resolves the product and stores the lot with its QR payload in one transaction.
// @Tags receipts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateReceiptRequest true "Lot"
// @Success 201 {object} Response{data=model.ReceiptLot}
// @Failure 400 {object} errors.ErrorResponse
// @Router /receipts [post]
func (h *ReceiptHandler) CreateReceipt(c echo.Context) error {
	var req CreateReceiptRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	lot, err := h.svc.Create(c.Request().Context(), service.CreateLotInput{
		SupplierName:       req.SupplierName,
		DeliveryPersonName: req.DeliveryPersonName,
		Product:            string(req.WaterProductID),
		Quantity:           req.Quantity,
		ReceiptDate:        req.ReceiptDate,
		CreatedBy:          middleware.UserID(c),
	})
	if err != nil {
		return err
	}
	return created(c, lot, "receipt created")
}

// UpdateReceiptStatus godoc
// @Summary Change lot status
// @Tags receipts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Param body body UpdateStatusRequest true "Status"
// @Success 200 {object} Response{data=model.ReceiptLot}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /receipts/{id}/status [put]
func (h *ReceiptHandler) UpdateReceiptStatus(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	lot, err := h.svc.UpdateStatus(c.Request().Context(), id, string(req.Status))
	if err != nil {
		return err
	}
	return ok(c, lot, "status updated")
}

// DeleteReceipt godoc
// @Summary Move a lot to the trash
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /receipts/{id} [delete]
func (h *ReceiptHandler) DeleteReceipt(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	affected, err := h.svc.SoftDelete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, map[string]int64{"affected": affected}, "receipt moved to trash")
}

// ListTrash godoc
// @Summary List trashed lots with their purge date
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Router /receipts/trash [get]
func (h *ReceiptHandler) ListTrash(c echo.Context) error {
	entries, err := h.svc.ListTrash(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, entries, "")
}

// RestoreReceipt godoc
// @Summary Restore a trashed lot
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Success 200 {object} Response{data=model.ReceiptLot}
// @Failure 404 {object} errors.ErrorResponse
// @Router /receipts/{id}/restore [put]
func (h *ReceiptHandler) RestoreReceipt(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	lot, err := h.svc.Restore(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, lot, "receipt restored")
}

// DeleteReceiptPermanent godoc
// @Summary Permanently delete a trashed lot
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /receipts/{id}/permanent [delete]
func (h *ReceiptHandler) DeleteReceiptPermanent(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeletePermanent(c.Request().Context(), id); err != nil {
		return err
	}
	return ok(c, nil, "receipt permanently deleted")
}

// QRImage godoc
// @Summary Lot label as QR PNG
// @Tags receipts
// @Produce png
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Param size query int false "Image size in pixels (128-1024)"
// @Success 200 {file} binary
// @Failure 404 {object} errors.ErrorResponse
// @Router /receipts/{id}/qr-image [get]
func (h *ReceiptHandler) QRImage(c echo.Context) error {
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

// ExportReceipts godoc
// @Summary Export lots as xlsx
// @Tags receipts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param search query string false "Same filter as the list"
// @Success 200 {file} binary
// @Router /receipts/export [get]
func (h *ReceiptHandler) ExportReceipts(c echo.Context) error {
	ctx := c.Request().Context()
	var lots []model.ReceiptLot
	for page := 1; page <= maxExportPages; page++ {
		result, err := h.svc.List(ctx, repository.ReceiptFilter{
			Search: c.QueryParam("search"),
			Page:   repository.Page{Number: page, Size: 200},
		})
		if err != nil {
			return err
		}
		lots = append(lots, result.Items...)
		if int64(len(lots)) >= result.Total || len(result.Items) == 0 {
			break
		}
	}

	filename := fmt.Sprintf("receipts-%s.xlsx", time.Now().UTC().Format("20060102"))
	return sendWorkbook(c, filename, func(w io.Writer) error {
		return export.WriteReceipts(w, lots)
	})
}

// sendWorkbook renders the whole workbook before committing the response, so a
// failed write still reaches the error handler.
func sendWorkbook(c echo.Context, filename string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Blob(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}

func renderQR(c echo.Context, payload string) error {
	size, _ := strconv.Atoi(c.QueryParam("size"))
	png, err := label.RenderPNG(payload, size)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.Blob(http.StatusOK, "image/png", png)
}
