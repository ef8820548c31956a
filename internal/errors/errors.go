package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAccountInactive is returned when a deactivated user tries to log in.
	ErrAccountInactive = errors.New("account is not active")
	// ErrUnauthenticated is returned when the bearer token is missing, invalid or revoked.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the caller's role is insufficient for the route.
	ErrForbidden = errors.New("insufficient role for this resource")

	// ErrUserNotFound is returned when a user is absent or already soft-deleted.
	ErrUserNotFound = errors.New("user not found")
	// ErrDepartmentNotFound is returned when a department does not exist.
	ErrDepartmentNotFound = errors.New("department not found")
	// ErrReceiptNotFound is returned when a lot is absent or already soft-deleted.
	ErrReceiptNotFound = errors.New("receipt lot not found")
	// ErrDeliveryNotFound is returned when a delivery is absent or already soft-deleted.
	ErrDeliveryNotFound = errors.New("delivery not found")

	// ErrProductNotFound is a validation error: the product identifier did not resolve.
	ErrProductNotFound = errors.New("product not found")
	// ErrStatusNotFound is a validation error: the status did not resolve.
	ErrStatusNotFound = errors.New("status not found")
	// ErrRoleNotFound is a validation error: the role code is unknown.
	ErrRoleNotFound = errors.New("role not found")
	// ErrInvalidQuantity is returned when quantity is not positive.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// ErrInvalidTransition is returned when a lot leaves a terminal status.
	ErrInvalidTransition = errors.New("status transition not allowed")
	// ErrSelfModification is returned when an admin deletes or deactivates their own account.
	ErrSelfModification = errors.New("cannot delete or deactivate your own account")

	// ErrAlreadyExists maps unique constraint violations.
	ErrAlreadyExists = errors.New("already exists")
	// ErrStillReferenced maps foreign key violations and guarded deletes.
	ErrStillReferenced = errors.New("still referenced by other records")

	// ErrPurgeInProgress is returned when another purge holds the lock.
	ErrPurgeInProgress = errors.New("trash purge already in progress")
	// ErrLotCodeExhausted is returned when no free lot code could be generated.
	ErrLotCodeExhausted = errors.New("could not generate a unique lot code")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Detail  string `json:"detail,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// Validation builds a 400 error with a caller supplied message.
func Validation(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, "VALIDATION_ERROR")
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrAccountInactive):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "ACCOUNT_INACTIVE")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrDepartmentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "DEPARTMENT_NOT_FOUND")
	case errors.Is(err, ErrReceiptNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "RECEIPT_NOT_FOUND")
	case errors.Is(err, ErrDeliveryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "DELIVERY_NOT_FOUND")
	case errors.Is(err, ErrProductNotFound):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PRODUCT_NOT_FOUND")
	case errors.Is(err, ErrStatusNotFound):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "STATUS_NOT_FOUND")
	case errors.Is(err, ErrRoleNotFound):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ROLE_NOT_FOUND")
	case errors.Is(err, ErrInvalidQuantity):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_QUANTITY")
	case errors.Is(err, ErrInvalidTransition):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS_TRANSITION")
	case errors.Is(err, ErrSelfModification):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "SELF_MODIFICATION")
	case errors.Is(err, ErrAlreadyExists):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ALREADY_EXISTS")
	case errors.Is(err, ErrStillReferenced):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "STILL_REFERENCED")
	case errors.Is(err, ErrPurgeInProgress):
		return NewHTTPError(http.StatusConflict, err.Error(), "PURGE_IN_PROGRESS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// FromDB translates store specific integrity errors into the domain taxonomy.
// Errors it does not recognize are returned unchanged.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrStillReferenced
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062:
			return ErrAlreadyExists
		case 1451, 1452:
			return ErrStillReferenced
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "duplicate key value"):
		return ErrAlreadyExists
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "violates foreign key constraint"):
		return ErrStillReferenced
	}
	return err
}
