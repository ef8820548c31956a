package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"wateradmin/internal/auth"
	"wateradmin/internal/config"
	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/handler"
	"wateradmin/internal/metrics"
	"wateradmin/internal/middleware"
	"wateradmin/internal/model"
)

// Deps groups what Register needs to mount the API.
type Deps struct {
	Log        *zap.Logger
	Metrics    *metrics.Metrics
	JWT        *auth.JWTService
	TokenStore auth.TokenStoreInterface

	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Departments *handler.DepartmentHandler
	Master      *handler.MasterHandler
	Receipts    *handler.ReceiptHandler
	Deliveries  *handler.DeliveryHandler
	Trash       *handler.TrashHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, d Deps) {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = ErrorHandler(log, cfg.IsProduction())

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(d.Metrics.Middleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authn := middleware.Authenticate(d.JWT, d.TokenStore)
	user := middleware.RequireRole(model.RoleUser)
	manager := middleware.RequireRole(model.RoleManager)
	admin := middleware.RequireRole(model.RoleAdmin)

	api := e.Group("/api")

	api.POST("/auth/login", d.Auth.Login)
	api.GET("/auth/me", d.Auth.Me, authn, user)
	api.POST("/auth/logout", d.Auth.Logout, authn, user)

	users := api.Group("/users", authn, admin)
	users.GET("", d.Users.ListUsers)
	users.POST("", d.Users.CreateUser)
	users.GET("/trash", d.Users.ListTrash)
	users.GET("/:id", d.Users.GetUser)
	users.PUT("/:id", d.Users.UpdateUser)
	users.DELETE("/:id", d.Users.DeleteUser)
	users.PATCH("/:id/role", d.Users.ChangeRole)
	users.PATCH("/:id/department", d.Users.ChangeDepartment)
	users.PATCH("/:id/status", d.Users.SetStatus)
	users.PATCH("/:id/restore", d.Users.RestoreUser)
	users.DELETE("/:id/permanent", d.Users.DeleteUserPermanent)

	api.GET("/roles", d.Master.Roles, authn, admin)

	departments := api.Group("/departments", authn, admin)
	departments.GET("", d.Departments.ListDepartments)
	departments.POST("", d.Departments.CreateDepartment)
	departments.GET("/:id", d.Departments.GetDepartment)
	departments.PUT("/:id", d.Departments.UpdateDepartment)
	departments.DELETE("/:id", d.Departments.DeleteDepartment)

	api.POST("/trash/purge", d.Trash.Purge, authn, admin)

	master := api.Group("/master", authn)
	master.GET("/water-types", d.Master.WaterTypes, manager)
	master.GET("/suppliers", d.Master.Suppliers, manager)
	master.GET("/receipt-statuses", d.Master.ReceiptStatuses, manager)
	master.GET("/delivery-statuses", d.Master.DeliveryStatuses, user)

	api.GET("/inventory/summary", d.Master.InventorySummary, authn, manager)

	receipts := api.Group("/receipts", authn, manager)
	receipts.GET("", d.Receipts.ListReceipts)
	receipts.POST("", d.Receipts.CreateReceipt)
	receipts.GET("/export", d.Receipts.ExportReceipts)
	receipts.GET("/trash", d.Receipts.ListTrash)
	receipts.GET("/:id", d.Receipts.GetReceipt)
	receipts.DELETE("/:id", d.Receipts.DeleteReceipt)
	receipts.PUT("/:id/status", d.Receipts.UpdateReceiptStatus)
	receipts.PUT("/:id/restore", d.Receipts.RestoreReceipt)
	receipts.DELETE("/:id/permanent", d.Receipts.DeleteReceiptPermanent)
	receipts.GET("/:id/qr-image", d.Receipts.QRImage)

	deliveries := api.Group("/deliveries", authn, user)
	deliveries.GET("", d.Deliveries.ListDeliveries)
	deliveries.POST("", d.Deliveries.CreateDelivery)
	deliveries.GET("/trash", d.Deliveries.ListTrash)
	deliveries.GET("/:id", d.Deliveries.GetDelivery)
	deliveries.PUT("/:id", d.Deliveries.UpdateDelivery)
	deliveries.DELETE("/:id", d.Deliveries.DeleteDelivery)
	deliveries.PATCH("/:id/status", d.Deliveries.UpdateDeliveryStatus)
	deliveries.PATCH("/:id/restore", d.Deliveries.RestoreDelivery)
	deliveries.DELETE("/:id/permanent", d.Deliveries.DeleteDeliveryPermanent)
	deliveries.GET("/:id/qr-image", d.Deliveries.QRImage)
}

// ErrorHandler renders every error as an ErrorResponse. Unmapped errors become
// 500s and are logged; their detail is only exposed outside production.
func ErrorHandler(log *zap.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var status int
		var body apperrors.ErrorResponse
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			status = echoErr.Code
			body = apperrors.ErrorResponse{
				Message: fmt.Sprint(echoErr.Message),
				Code:    statusCode(status),
			}
		} else {
			httpErr := apperrors.MapErrorToHTTP(err)
			status = httpErr.StatusCode
			body = httpErr.ToErrorResponse()
			if status >= http.StatusInternalServerError {
				log.Error("unhandled error",
					zap.Error(err),
					zap.String("method", c.Request().Method),
					zap.String("uri", c.Request().RequestURI),
					zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				)
				if !production {
					body.Detail = err.Error()
				}
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
