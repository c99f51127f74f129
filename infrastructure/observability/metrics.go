package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the Prometheus metrics of the library. A nil *Collector is
// valid and records nothing, so components can be built without metrics.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Graph store metrics
	SPARQLOperations *prometheus.CounterVec
	SPARQLDuration   *prometheus.HistogramVec

	// Search metrics
	SearchOperations *prometheus.CounterVec

	// Directory sync metrics
	SyncRuns *prometheus.CounterVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		SPARQLOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sparql_operations_total",
				Help:      "Total number of graph store operations",
			},
			[]string{"operation", "endpoint", "status"},
		),
		SPARQLDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sparql_operation_duration_seconds",
				Help:      "Graph store operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "endpoint"},
		),
		SearchOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_operations_total",
				Help:      "Total number of OpenSearch operations",
			},
			[]string{"operation", "status"},
		),
		SyncRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "directory_sync_total",
				Help:      "Total number of group management synchronizations",
			},
			[]string{"kind", "status"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.SPARQLOperations,
		c.SPARQLDuration,
		c.SearchOperations,
		c.SyncRuns,
		c.CacheHits,
		c.CacheMisses,
	)
	return c
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordSPARQL records one graph store call
func (c *Collector) RecordSPARQL(operation, endpoint string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	c.SPARQLOperations.WithLabelValues(operation, endpoint, statusLabel(err)).Inc()
	c.SPARQLDuration.WithLabelValues(operation, endpoint).Observe(duration.Seconds())
}

// RecordSearch records one OpenSearch call
func (c *Collector) RecordSearch(operation string, err error) {
	if c == nil {
		return
	}
	c.SearchOperations.WithLabelValues(operation, statusLabel(err)).Inc()
}

// RecordSync records a directory synchronization run
func (c *Collector) RecordSync(kind string, err error) {
	if c == nil {
		return
	}
	c.SyncRuns.WithLabelValues(kind, statusLabel(err)).Inc()
}

// RecordCache records a cache lookup
func (c *Collector) RecordCache(cache string, hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.CacheHits.WithLabelValues(cache).Inc()
		return
	}
	c.CacheMisses.WithLabelValues(cache).Inc()
}

// RecordHTTP records a served request
func (c *Collector) RecordHTTP(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, httpStatusClass(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func httpStatusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}
