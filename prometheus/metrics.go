package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// HTTP request counter by service, endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"service", "endpoint", "method", "status"},
	)

	// Store resolution outcomes by the signal that decided them
	StoreResolutionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_store_resolutions_total",
			Help: "Total number of store resolutions by source and outcome",
		},
		[]string{"source", "outcome"}, // outcome can be "resolved", "not_found", "not_specified", "cache_hit"
	)

	// Authentication and authorization failures
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "missing_token", "invalid_token", "blocked", "forbidden" etc.
	)

	// Auth operation counter
	AuthOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_auth_operations_total",
			Help: "Total number of authentication operations",
		},
		[]string{"operation"},
	)

	// Order state machine events
	OrderTransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_transitions_total",
			Help: "Total number of order lifecycle events by result",
		},
		[]string{"event", "result"}, // result can be "applied", "rejected", "error"
	)

	// Stock restore attempts per order item
	StockRestoreCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_stock_restores_total",
			Help: "Total number of stock restore attempts per item by result",
		},
		[]string{"result"}, // result can be "restored", "skipped", "failed"
	)

	// Store operation counter
	StoreOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_store_operations_total",
			Help: "Total number of store administration operations",
		},
		[]string{"operation"},
	)

	// Outbound email notifications
	NotificationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_notifications_total",
			Help: "Total number of outbound notifications by kind and result",
		},
		[]string{"kind", "result"},
	)

	// Payment provider webhooks
	WebhookCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_payment_webhooks_total",
			Help: "Total number of payment webhooks by event and result",
		},
		[]string{"event", "result"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storefront_info",
			Help: "Information about the storefront service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(StoreResolutionCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(AuthOperationCounter)
	prometheus.MustRegister(OrderTransitionCounter)
	prometheus.MustRegister(StockRestoreCounter)
	prometheus.MustRegister(StoreOperationCounter)
	prometheus.MustRegister(NotificationCounter)
	prometheus.MustRegister(WebhookCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(InfoGauge)
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation returns a function that records the duration of a database
// operation started at startTime. Use as
// defer TrackDBOperation("op")(time.Now()).
func TrackDBOperation(operation string) func(startTime time.Time) {
	return func(startTime time.Time) {
		DBOperationDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	}
}

// HTTPMetrics records request counts and durations for one service
type HTTPMetrics struct {
	ServiceName string
}

// NewHTTPMetrics creates a new HTTP metrics collector for a specific service
func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	return &HTTPMetrics{ServiceName: serviceName}
}

// Middleware creates a middleware function that captures metrics for each
// request. It must run outside the middleware that renders handler errors so
// the recorded status is final.
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			labels := prometheus.Labels{
				"service":  m.ServiceName,
				"endpoint": c.Path(),
				"method":   c.Request().Method,
				"status":   status,
			}
			RequestDuration.With(labels).Observe(time.Since(start).Seconds())
			HTTPRequestCounter.With(labels).Inc()

			return err
		}
	}
}

// RecordStoreResolution records how a store identity was decided
func RecordStoreResolution(source, outcome string) {
	StoreResolutionCounter.With(prometheus.Labels{"source": source, "outcome": outcome}).Inc()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordAuthOperation records an authentication operation by type
func RecordAuthOperation(operation string) {
	AuthOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordOrderTransition records an order lifecycle event
func RecordOrderTransition(event, result string) {
	OrderTransitionCounter.With(prometheus.Labels{"event": event, "result": result}).Inc()
}

// RecordStockRestore records the result of restoring one order item
func RecordStockRestore(result string) {
	StockRestoreCounter.With(prometheus.Labels{"result": result}).Inc()
}

// RecordStoreOperation records a store administration operation
func RecordStoreOperation(operation string) {
	StoreOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordNotification records an outbound notification attempt
func RecordNotification(kind, result string) {
	NotificationCounter.With(prometheus.Labels{"kind": kind, "result": result}).Inc()
}

// RecordWebhook records a payment webhook delivery
func RecordWebhook(event, result string) {
	WebhookCounter.With(prometheus.Labels{"event": event, "result": result}).Inc()
}
