// Package metrics exposes Prometheus counters for the selector host.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	Registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Changes counts OnChange notifications delivered to host forms.
	Changes prometheus.Counter
	// Rejected counts edits refused by a selector, by field.
	Rejected *prometheus.CounterVec
	// Widgets is the number of mounted selectors.
	Widgets prometheus.Gauge
}

// New creates a registry with Go/process collectors and the selector
// metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: registry,
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Changes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "selector_changes_total",
			Help: "Selected instants reported to host forms",
		}),
		Rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selector_rejected_edits_total",
				Help: "Edits rejected by a selector",
			},
			[]string{"field"},
		),
		Widgets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "selector_widgets",
			Help: "Mounted selectors",
		}),
	}
	registry.MustRegister(m.Requests, m.RequestDuration, m.Changes, m.Rejected, m.Widgets)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Middleware records count and latency per route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		// ServeMux fills in Pattern once it has routed the request.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
