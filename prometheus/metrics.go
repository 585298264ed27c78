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
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "strefex_login_total",
			Help: "Total number of login attempts",
		},
	)

	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "strefex_register_total",
			Help: "Total number of user registrations",
		},
	)

	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strefex_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // "invalid_credentials", "invalid_token", "ambiguous_email", ...
	)

	ResourceOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strefex_resource_operations_total",
			Help: "Total number of tenant resource operations",
		},
		[]string{"resource", "operation"},
	)

	BillingEventCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strefex_billing_events_total",
			Help: "Total number of billing operations and webhook events",
		},
		[]string{"operation"},
	)

	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strefex_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "strefex_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)
)

var (
	TokensIssuedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "strefex_tokens_issued_total",
			Help: "Total number of session tokens issued",
		},
	)
)

// InitMetrics registers all metrics with the default registry
func InitMetrics() {
	prometheus.MustRegister(
		LoginCounter,
		RegisterCounter,
		AuthErrorCounter,
		ResourceOperationCounter,
		BillingEventCounter,
		HTTPRequestCounter,
		RequestDuration,
		TokensIssuedCounter,
	)
}

// RecordAuthError increments the auth error counter for the given type
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// RecordResourceOperation increments the resource operation counter
func RecordResourceOperation(resource, operation string) {
	ResourceOperationCounter.WithLabelValues(resource, operation).Inc()
}

// RecordBillingEvent increments the billing event counter
func RecordBillingEvent(operation string) {
	BillingEventCounter.WithLabelValues(operation).Inc()
}

// RecordTokenIssued increments the issued-token counter
func RecordTokenIssued() {
	TokensIssuedCounter.Inc()
}

// MetricsMiddleware records request counts and durations per endpoint
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			HTTPRequestCounter.WithLabelValues(endpoint, method, status).Inc()
			RequestDuration.WithLabelValues(endpoint, method, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// GetPrometheusHandler returns the HTTP handler for the /metrics endpoint
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
