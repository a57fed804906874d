package service

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics registers Prometheus collectors for the domain services. Every
// method is nil-safe so services can run without instrumentation.
type Metrics struct {
	registry           *prometheus.Registry
	handler            http.Handler
	operationTotal     *prometheus.CounterVec
	storeQueryDuration *prometheus.HistogramVec
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	cacheHitRatio      prometheus.Gauge

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetrics registers the core collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	operationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "school_operations_total",
		Help: "Total number of business operations by outcome",
	}, []string{"operation", "outcome"})

	storeQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "school_store_query_duration_seconds",
		Help:    "Duration of persistent store queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"table", "op"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "school_catalog_cache_hits_total",
		Help: "Total service catalog cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "school_catalog_cache_misses_total",
		Help: "Total service catalog cache misses",
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "school_catalog_cache_hit_ratio",
		Help: "Ratio of catalog cache hits to total lookups",
	})

	registry.MustRegister(operationTotal, storeQueryDuration, cacheHits, cacheMisses, cacheHitRatio)

	return &Metrics{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		operationTotal:     operationTotal,
		storeQueryDuration: storeQueryDuration,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		cacheHitRatio:      cacheHitRatio,
	}
}

// Handler exposes the Prometheus HTTP handler for whatever binary mounts it.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// RecordOperation counts one business operation outcome.
func (m *Metrics) RecordOperation(operation string, success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "rejected"
	}
	m.operationTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveStoreQuery records store query timing. Implements
// repository.QueryObserver.
func (m *Metrics) ObserveStoreQuery(table, op string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeQueryDuration.WithLabelValues(table, op).Observe(duration.Seconds())
}

// RecordCacheLookup records a catalog cache hit or miss and refreshes the
// hit ratio gauge.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}
