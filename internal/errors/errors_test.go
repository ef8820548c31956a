package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"wrapped not found", fmt.Errorf("get lot: %w", ErrReceiptNotFound), http.StatusNotFound, "RECEIPT_NOT_FOUND"},
		{"product is validation", ErrProductNotFound, http.StatusBadRequest, "PRODUCT_NOT_FOUND"},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"duplicate", ErrAlreadyExists, http.StatusBadRequest, "ALREADY_EXISTS"},
		{"fk", ErrStillReferenced, http.StatusBadRequest, "STILL_REFERENCED"},
		{"purge lock", ErrPurgeInProgress, http.StatusConflict, "PURGE_IN_PROGRESS"},
		{"http error passthrough", Validation("username is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInternalMessage(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	assert.Equal(t, "internal server error", httpErr.Message)
}

func TestFromDB(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"gorm duplicate", gorm.ErrDuplicatedKey, ErrAlreadyExists},
		{"gorm fk", gorm.ErrForeignKeyViolated, ErrStillReferenced},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, ErrAlreadyExists},
		{"mysql fk parent", &mysql.MySQLError{Number: 1451, Message: "Cannot delete"}, ErrStillReferenced},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: departments.name (2067)"), ErrAlreadyExists},
		{"sqlite fk", errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), ErrStillReferenced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromDB(tt.in))
		})
	}

	other := errors.New("deadlock")
	assert.Same(t, other, FromDB(other))
}
