package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(NewHTTPMetrics("test-service").Middleware())
	e.GET("/orders/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	labels := prometheus.Labels{"service": "test-service", "endpoint": "/orders/:id", "method": "GET", "status": "204"}
	before := testutil.ToFloat64(HTTPRequestCounter.With(labels))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/5", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestCounter.With(labels)))
}

func TestRecordOrderTransition(t *testing.T) {
	c := OrderTransitionCounter.With(prometheus.Labels{"event": "refund", "result": "rejected"})
	before := testutil.ToFloat64(c)
	RecordOrderTransition("refund", "rejected")
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestTrackDBOperation(t *testing.T) {
	TrackDBOperation("test_op")(time.Now())

	rec := httptest.NewRecorder()
	GetPrometheusHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), `storefront_db_operation_duration_seconds_count{operation="test_op"}`))
}
