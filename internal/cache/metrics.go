package cache

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts cache hits, misses and errors for the process. Counters
// are atomic so concurrent request handlers never lose an increment.
// Metrics also implements prometheus.Collector.
type Metrics struct {
	hits   atomic.Int64
	misses atomic.Int64
	errors atomic.Int64

	latency *prometheus.HistogramVec

	hitsDesc    *prometheus.Desc
	missesDesc  *prometheus.Desc
	errorsDesc  *prometheus.Desc
	hitRateDesc *prometheus.Desc
}

// Snapshot is a point-in-time view of the counters. The fields are read
// one by one, so under concurrent writes they may be slightly apart.
type Snapshot struct {
	Hits          int64   `json:"hits"`
	Misses        int64   `json:"misses"`
	Errors        int64   `json:"errors"`
	HitRate       float64 `json:"hit_rate"`
	TotalRequests int64   `json:"total_requests"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cache_operation_duration_seconds",
				Help:    "Cache backend operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		hitsDesc:    prometheus.NewDesc("cache_hits_total", "The total number of cache hits", nil, nil),
		missesDesc:  prometheus.NewDesc("cache_misses_total", "The total number of cache misses", nil, nil),
		errorsDesc:  prometheus.NewDesc("cache_errors_total", "The total number of failed cache operations", nil, nil),
		hitRateDesc: prometheus.NewDesc("cache_hit_ratio", "Cache hit ratio (hits/(hits+misses))", nil, nil),
	}
}

func (m *Metrics) RecordHit() {
	m.hits.Add(1)
}

func (m *Metrics) RecordMiss() {
	m.misses.Add(1)
}

func (m *Metrics) RecordError() {
	m.errors.Add(1)
}

// ObserveLatency records the duration of one backend round-trip
func (m *Metrics) ObserveLatency(operation string, d time.Duration) {
	m.latency.WithLabelValues(operation).Observe(d.Seconds())
}

// HitRate returns hits/(hits+misses) as a percentage, or 0 before any read
func (m *Metrics) HitRate() float64 {
	return hitRate(m.hits.Load(), m.misses.Load())
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

func (m *Metrics) Snapshot() Snapshot {
	hits := m.hits.Load()
	misses := m.misses.Load()

	return Snapshot{
		Hits:          hits,
		Misses:        misses,
		Errors:        m.errors.Load(),
		HitRate:       math.Round(hitRate(hits, misses)*100) / 100,
		TotalRequests: hits + misses,
	}
}

// Reset zeroes the counters. The backend is untouched.
func (m *Metrics) Reset() {
	m.hits.Store(0)
	m.misses.Store(0)
	m.errors.Store(0)
}

// Describe implements prometheus.Collector
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.hitsDesc
	ch <- m.missesDesc
	ch <- m.errorsDesc
	ch <- m.hitRateDesc
	m.latency.Describe(ch)
}

// Collect implements prometheus.Collector
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	hits := m.hits.Load()
	misses := m.misses.Load()

	ch <- prometheus.MustNewConstMetric(m.hitsDesc, prometheus.CounterValue, float64(hits))
	ch <- prometheus.MustNewConstMetric(m.missesDesc, prometheus.CounterValue, float64(misses))
	ch <- prometheus.MustNewConstMetric(m.errorsDesc, prometheus.CounterValue, float64(m.errors.Load()))
	ch <- prometheus.MustNewConstMetric(m.hitRateDesc, prometheus.GaugeValue, hitRate(hits, misses)/100)
	m.latency.Collect(ch)
}
