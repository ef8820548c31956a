package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"wateradmin/internal/service"
)

// TrashHandler exposes the retention purge.
type TrashHandler struct {
	svc service.TrashService
}

// NewTrashHandler creates a trash handler.
func NewTrashHandler(svc service.TrashService) *TrashHandler {
	return &TrashHandler{svc: svc}
}

// Purge godoc
// @Summary Purge expired trash
// @Description Hard-deletes lots, deliveries and users that have been in the trash longer than the retention window.
// @Tags trash
// @Produce json
// @Security BearerAuth
// @Param dry_run query bool false "Only count rows"
// @Success 200 {object} Response{data=model.PurgeResult}
// @Failure 409 {object} errors.ErrorResponse
// @Router /trash/purge [post]
func (h *TrashHandler) Purge(c echo.Context) error {
	dryRun, _ := strconv.ParseBool(c.QueryParam("dry_run"))
	result, err := h.svc.Purge(c.Request().Context(), dryRun)
	if err != nil {
		return err
	}
	return ok(c, result, "trash purged")
}
