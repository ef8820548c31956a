package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExposition(t *testing.T) {
	m := New()
	m.LotCreated()
	m.StatusChanged("receipt", "COMPLETED")
	m.RowsPurged("receipts", 3)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "wateradmin_receipt_lots_created_total 1")
	assert.Contains(t, body, `wateradmin_trash_rows_purged_total{entity="receipts"} 3`)
	assert.Contains(t, body, `wateradmin_http_requests_total{method="GET",route="/ping",status="200"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.LotCreated()
		m.StatusChanged("delivery", "COMPLETED")
		m.RowsPurged("users", 1)
	})
}
