// Package metrics owns the prometheus registry for the router, the mapping
// store and the object fetcher. A nil *Metrics is valid and records nothing,
// so components can be built without instrumentation in tests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request outcomes recorded by the router.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
)

// Metrics provides a self-contained Prometheus registry and the collectors
// used across the request path.
type Metrics struct {
	reg            *prometheus.Registry
	requests       *prometheus.CounterVec
	cache          *prometheus.CounterVec
	backendLatency *prometheus.HistogramVec
	mappings       prometheus.Gauge
}

// New creates a Metrics instance with a fresh registry and registers collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zhost",
		Subsystem: "router",
		Name:      "requests_total",
		Help:      "Total number of routed requests, partitioned by outcome.",
	}, []string{"outcome"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zhost",
		Subsystem: "fetcher",
		Name:      "cache_total",
		Help:      "Object cache lookups, partitioned by hit or miss.",
	}, []string{"result"})
	backendLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "zhost",
		Subsystem: "fetcher",
		Name:      "backend_duration_seconds",
		Help:      "Histogram of storage backend lookup latencies.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend"})
	mappings := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "zhost",
		Subsystem: "mappings",
		Name:      "loaded",
		Help:      "Number of host mappings loaded by this process.",
	})

	_ = reg.Register(requests)
	_ = reg.Register(cache)
	_ = reg.Register(backendLatency)
	_ = reg.Register(mappings)

	return &Metrics{
		reg:            reg,
		requests:       requests,
		cache:          cache,
		backendLatency: backendLatency,
		mappings:       mappings,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler returns an http.Handler that serves Prometheus metrics using the internal registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// ObserveRequest counts a routed request.
func (m *Metrics) ObserveRequest(outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
}

// ObserveCache counts an object cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(result).Inc()
}

// ObserveBackend records how long a storage backend lookup took.
func (m *Metrics) ObserveBackend(backend string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.backendLatency.WithLabelValues(backend).Observe(elapsed.Seconds())
}

// SetMappings records the size of the loaded mapping table.
func (m *Metrics) SetMappings(n int) {
	if m == nil {
		return
	}
	m.mappings.Set(float64(n))
}
