package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "wateradmin/internal/errors"
)

const namespace = "wateradmin"

// Metrics holds the application collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	httpReqCnt  *prometheus.CounterVec
	httpDur     *prometheus.HistogramVec
	lotsCreated prometheus.Counter
	statusSet   *prometheus.CounterVec
	rowsPurged  *prometheus.CounterVec
}

func New() *Metrics {
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Buckets: prometheus.DefBuckets}, []string{"method", "route"})
	lotsCreated := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "receipt_lots_created_total"})
	statusSet := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "status_changes_total"}, []string{"entity", "status"})
	rowsPurged := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "trash_rows_purged_total"}, []string{"entity"})
	r.MustRegister(httpReqCnt, httpDur, lotsCreated, statusSet, rowsPurged)

	return &Metrics{
		registry:    r,
		httpReqCnt:  httpReqCnt,
		httpDur:     httpDur,
		lotsCreated: lotsCreated,
		statusSet:   statusSet,
		rowsPurged:  rowsPurged,
	}
}

func (m *Metrics) LotCreated() {
	if m == nil {
		return
	}
	m.lotsCreated.Inc()
}

func (m *Metrics) StatusChanged(entity, status string) {
	if m == nil {
		return
	}
	m.statusSet.WithLabelValues(entity, status).Inc()
}

func (m *Metrics) RowsPurged(entity string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsPurged.WithLabelValues(entity).Add(float64(n))
}

// Middleware records request counts and latency per route template.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if m == nil {
				return err
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else if err != nil {
				status = apperrors.MapErrorToHTTP(err).StatusCode
			}
			m.httpReqCnt.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			m.httpDur.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
