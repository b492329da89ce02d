// Package metrics exposes Prometheus counters for the auth endpoints.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation labels.
const (
	OpSignup = "signup"
	OpLogin  = "login"
)

// Outcome labels, one per client-visible result class.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalid      = "invalid"
	OutcomeConflict     = "conflict"
	OutcomeNotFound     = "not_found"
	OutcomeUnauthorized = "unauthorized"
	OutcomeError        = "error"
)

// Metrics holds the collectors of the service and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	AuthRequests    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates a fresh registry with Go and process collectors plus the
// service metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		AuthRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credkeeper_auth_requests_total",
				Help: "Total number of signup and login requests by outcome",
			},
			[]string{"operation", "outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credkeeper_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
	reg.MustRegister(m.AuthRequests, m.RequestDuration)

	return m
}

// RecordAuth increments the counter for one finished signup or login.
func (m *Metrics) RecordAuth(operation, outcome string) {
	m.AuthRequests.WithLabelValues(operation, outcome).Inc()
}

// ObserveRequest records the duration of one HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
