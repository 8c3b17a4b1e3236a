package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the console's Prometheus collectors.
type Metrics struct {
	Registry *prometheus.Registry

	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	errors         *prometheus.CounterVec
	logins         *prometheus.CounterVec
	validations    *prometheus.CounterVec
	guardDecisions *prometheus.CounterVec
	renderFaults   *prometheus.CounterVec
}

// NewMetrics registers collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "console_http_requests_total",
			Help: "HTTP requests served by the console",
		}, []string{"method", "route", "status"}),
		requestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_http_request_duration_seconds",
			Help:    "Latency of console HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "console_http_errors_total",
			Help: "Console HTTP requests that ended in an error response",
		}, []string{"method", "route", "code"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "console_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "console_token_validations_total",
			Help: "Token validation round trips by reason and outcome",
		}, []string{"reason", "outcome"}),
		guardDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "console_guard_decisions_total",
			Help: "Route guard decisions",
		}, []string{"decision"}),
		renderFaults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "console_render_faults_total",
			Help: "Faults caught while rendering guarded views",
		}, []string{"route"}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, route, code).Inc()
}

// RecordLogin counts a login attempt.
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

// RecordValidation counts a validation round trip.
func (m *Metrics) RecordValidation(reason, outcome string) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(reason, outcome).Inc()
}

// RecordGuardDecision counts a route guard decision.
func (m *Metrics) RecordGuardDecision(decision string) {
	if m == nil {
		return
	}
	m.guardDecisions.WithLabelValues(decision).Inc()
}

// RecordRenderFault counts a fault caught by the error boundary.
func (m *Metrics) RecordRenderFault(route string) {
	if m == nil {
		return
	}
	m.renderFaults.WithLabelValues(route).Inc()
}
