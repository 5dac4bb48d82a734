// Package observability owns the Prometheus collectors of the ledger service.
// Collectors live on a private registry so tests can build as many as they need.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Metrics groups the ledger collectors.
type Metrics struct {
	registry      *prometheus.Registry
	operations    *prometheus.CounterVec
	credited      prometheus.Counter
	auditFindings prometheus.Gauge
	httpDuration  *prometheus.HistogramVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "klix",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations segmented by operation and outcome.",
		}, []string{"operation", "outcome"}),
		credited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "klix",
			Subsystem: "ledger",
			Name:      "credited_amount_total",
			Help:      "Sum of task rewards credited to influencer wallets.",
		}),
		auditFindings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "klix",
			Subsystem: "ledger",
			Name:      "audit_findings",
			Help:      "Number of inconsistencies found by the last ledger audit.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "klix",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
	registry.MustRegister(
		m.operations,
		m.credited,
		m.auditFindings,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveOperation counts one ledger operation.
func (m *Metrics) ObserveOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// AddCredited adds a credited reward. Negative rewards are not counted.
func (m *Metrics) AddCredited(amount float64) {
	if m == nil || amount <= 0 {
		return
	}
	m.credited.Add(amount)
}

// SetAuditFindings records the result of the last audit.
func (m *Metrics) SetAuditFindings(n int) {
	if m == nil {
		return
	}
	m.auditFindings.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware times every request, labelled by the matched chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpDuration.WithLabelValues(route, r.Method, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
