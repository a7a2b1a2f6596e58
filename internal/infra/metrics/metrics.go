package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	// Inbound traffic
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// OpenWeatherMap calls
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec

	// Requests refused by the rate limiter, and store failures that let requests through
	RateLimitedTotal       prometheus.Counter
	RateLimitFailuresTotal prometheus.Counter
}

// NewMetrics registers every collector on a dedicated registry so several
// instances can coexist in one process.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	httpLabels := []string{"method", "route", "status_class"}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		httpLabels,
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		httpLabels,
	)

	m.UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of OpenWeatherMap requests by outcome",
		},
		[]string{"operation", "outcome"},
	)

	m.UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of OpenWeatherMap requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	m.RateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Total number of requests refused with 429",
		},
	)

	m.RateLimitFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_store_failures_total",
			Help:      "Total number of rate limit store failures",
		},
	)

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.UpstreamRequestsTotal,
		m.UpstreamRequestDuration,
		m.RateLimitedTotal,
		m.RateLimitFailuresTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry exposes the registry for tests and custom handlers
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveUpstream records one OpenWeatherMap call
func (m *Metrics) ObserveUpstream(operation string, outcome string, elapsed time.Duration) {
	m.UpstreamRequestsTotal.WithLabelValues(operation, outcome).Inc()
	m.UpstreamRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveRateLimited records one refused request
func (m *Metrics) ObserveRateLimited() {
	m.RateLimitedTotal.Inc()
}

// ObserveRateLimitFailure records one store failure
func (m *Metrics) ObserveRateLimitFailure() {
	m.RateLimitFailuresTotal.Inc()
}

// Middleware counts every request by its route template, so /weather/:city is one series
func (m *Metrics) Middleware(skipper func(c echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = statusOf(err, status)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			labels := prometheus.Labels{
				"method":       c.Request().Method,
				"route":        route,
				"status_class": getStatusClass(status),
			}
			m.HTTPRequestsTotal.With(labels).Inc()
			m.HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// statusOf guesses the status the error handler will write for err
func statusOf(err error, fallback int) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	if fallback < http.StatusBadRequest {
		return http.StatusInternalServerError
	}
	return fallback
}

func getStatusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
