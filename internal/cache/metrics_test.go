package cache

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_HitRate(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, 0.0, m.HitRate())

	m.RecordHit()
	m.RecordHit()
	m.RecordHit()
	m.RecordMiss()
	m.RecordError()

	assert.Equal(t, 75.0, m.HitRate())

	snap := m.Snapshot()
	assert.Equal(t, Snapshot{Hits: 3, Misses: 1, Errors: 1, HitRate: 75, TotalRequests: 4}, snap)
}

func TestMetrics_ErrorsDoNotAffectHitRate(t *testing.T) {
	m := NewMetrics()
	m.RecordError()
	m.RecordError()

	assert.Equal(t, 0.0, m.HitRate())
	assert.Equal(t, int64(0), m.Snapshot().TotalRequests)
}

func TestMetrics_Collector(t *testing.T) {
	m := NewMetrics()
	m.RecordHit()
	m.RecordMiss()
	m.RecordMiss()
	m.RecordMiss()
	m.ObserveLatency("get", 2*time.Millisecond)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(m))

	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		metric := mf.GetMetric()[0]
		switch {
		case metric.GetCounter() != nil:
			values[mf.GetName()] = metric.GetCounter().GetValue()
		case metric.GetGauge() != nil:
			values[mf.GetName()] = metric.GetGauge().GetValue()
		case metric.GetHistogram() != nil:
			values[mf.GetName()] = float64(metric.GetHistogram().GetSampleCount())
		}
	}

	assert.Equal(t, 1.0, values["cache_hits_total"])
	assert.Equal(t, 3.0, values["cache_misses_total"])
	assert.Equal(t, 0.0, values["cache_errors_total"])
	assert.Equal(t, 0.25, values["cache_hit_ratio"])
	assert.Equal(t, 1.0, values["cache_operation_duration_seconds"])
}

func TestMetrics_SeparateInstancesRegisterIndependently(t *testing.T) {
	first := prometheus.NewRegistry()
	second := prometheus.NewRegistry()

	assert.NoError(t, first.Register(NewMetrics()))
	assert.NoError(t, second.Register(NewMetrics()))
}
