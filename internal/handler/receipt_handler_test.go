package handler

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wateradmin/internal/export"
)

func TestSendWorkbook(t *testing.T) {
	e := echo.New()

	t.Run("failed write leaves the response uncommitted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/receipts/export", nil), rec)

		err := sendWorkbook(c, "receipts.xlsx", func(w io.Writer) error {
			_, _ = w.Write([]byte("PK partial"))
			return errors.New("disk full")
		})
		require.Error(t, err)
		assert.False(t, c.Response().Committed)
		assert.Empty(t, rec.Body.Bytes())
	})

	t.Run("complete workbook is sent as attachment", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/receipts/export", nil), rec)

		err := sendWorkbook(c, "receipts.xlsx", func(w io.Writer) error {
			_, err := w.Write([]byte("PK complete"))
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, "attachment; filename=receipts.xlsx", rec.Header().Get(echo.HeaderContentDisposition))
		assert.Equal(t, "PK complete", rec.Body.String())
	})
}
