package infrastructure

import (
	"context"

	"productapi.app/internal/cache"
	"productapi.app/internal/ports"
)

// CacheHealthChecker reports Redis liveness
type CacheHealthChecker struct {
	cache *cache.Cache
}

func NewCacheHealthChecker(c *cache.Cache) *CacheHealthChecker {
	return &CacheHealthChecker{cache: c}
}

// Check probes the backend. A cache that never connected is disabled, not unhealthy.
func (c *CacheHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "cache",
		Details:   make(map[string]interface{}),
	}

	if c.cache == nil || !c.cache.Enabled() {
		status.Status = ports.StatusDisabled
		status.Details["connected"] = false
		return status
	}

	if !c.cache.IsAlive(ctx) {
		status.Status = ports.StatusUnhealthy
		status.Error = "redis ping failed"
		status.Details["connected"] = false
		return status
	}

	status.Status = ports.StatusHealthy
	status.Details["connected"] = true
	status.Details["hit_rate"] = c.cache.Metrics().Snapshot().HitRate
	return status
}
