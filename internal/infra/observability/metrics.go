package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the portal core.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	storageOps    *prometheus.CounterVec
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	queueDepth    prometheus.Gauge
	flushDuration prometheus.Histogram
	repoDuration  *prometheus.HistogramVec
}

// StorageSnapshot summarizes storage counters for GET /v1/metrics/storage.
type StorageSnapshot struct {
	PrimaryOps     int64   `json:"primaryOps"`
	PrimaryFaults  int64   `json:"primaryFaults"`
	FallbackOps    int64   `json:"fallbackOps"`
	FallbackFaults int64   `json:"fallbackFaults"`
	CacheHits      int64   `json:"cacheHits"`
	CacheMisses    int64   `json:"cacheMisses"`
	CacheHitRate   float64 `json:"cacheHitRate"`
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		storageOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsv_storage_ops_total",
				Help: "Storage medium operations by medium and outcome.",
			},
			[]string{"medium", "status"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsv_cache_hits_total",
				Help: "Collection cache hits.",
			},
			[]string{"collection"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bsv_cache_misses_total",
				Help: "Collection cache misses.",
			},
			[]string{"collection"},
		),
		queueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bsv_write_queue_depth",
				Help: "Keys waiting in the persistence queue.",
			},
		),
		flushDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bsv_flush_duration_seconds",
				Help:    "Duration of explicit durability flushes.",
				Buckets: prometheus.DefBuckets,
			},
		),
		repoDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bsv_repository_op_duration_seconds",
				Help:    "Duration of repository operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// IncrStorageOp counts one medium operation; status is "ok" or "fault".
func (m *Metrics) IncrStorageOp(medium, status string) {
	m.storageOps.WithLabelValues(medium, status).Inc()
}

// IncrCacheHit increments the cache hit counter for a collection.
func (m *Metrics) IncrCacheHit(collection string) {
	m.cacheHits.WithLabelValues(collection).Inc()
}

// IncrCacheMiss increments the cache miss counter for a collection.
func (m *Metrics) IncrCacheMiss(collection string) {
	m.cacheMisses.WithLabelValues(collection).Inc()
}

// SetQueueDepth records the number of keys pending persistence.
func (m *Metrics) SetQueueDepth(n int) {
	m.queueDepth.Set(float64(n))
}

// ObserveFlush records the duration of a Flush call.
func (m *Metrics) ObserveFlush(d time.Duration) {
	m.flushDuration.Observe(d.Seconds())
}

// RecordRepoOp records the duration of a repository operation.
func (m *Metrics) RecordRepoOp(operation string, d time.Duration) {
	m.repoDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// GetStorageSnapshot returns current storage counter values.
func (m *Metrics) GetStorageSnapshot() *StorageSnapshot {
	primaryOK := getCounterValue(m.storageOps, "primary", "ok")
	primaryFault := getCounterValue(m.storageOps, "primary", "fault")
	fallbackOK := getCounterValue(m.storageOps, "fallback", "ok")
	fallbackFault := getCounterValue(m.storageOps, "fallback", "fault")

	var hits, misses float64
	for _, c := range []string{
		"users", "customers", "app_codes", "documents",
		"messages", "production", "session", "settings", "calc_history",
	} {
		hits += getCounterValue(m.cacheHits, c)
		misses += getCounterValue(m.cacheMisses, c)
	}

	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &StorageSnapshot{
		PrimaryOps:     int64(primaryOK + primaryFault),
		PrimaryFaults:  int64(primaryFault),
		FallbackOps:    int64(fallbackOK + fallbackFault),
		FallbackFaults: int64(fallbackFault),
		CacheHits:      int64(hits),
		CacheMisses:    int64(misses),
		CacheHitRate:   hitRate,
	}
}

// getCounterValue extracts the current float64 value from a CounterVec
// for the given label values.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
