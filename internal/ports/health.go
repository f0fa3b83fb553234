package ports

import "context"

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

// HealthChecker defines the contract for component health checking
type HealthChecker interface {
	Check(ctx context.Context) HealthStatus
}

// HealthStatus represents the health status of a component
type HealthStatus struct {
	Component string                 `json:"component"`
	Status    string                 `json:"status"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Healthy reports whether the component is usable. A disabled component is
// not a failure.
func (h HealthStatus) Healthy() bool {
	return h.Status != StatusUnhealthy
}

// DatabaseHealthChecker checks database connectivity
type DatabaseHealthChecker interface {
	HealthChecker
}

// CacheHealthChecker checks cache backend liveness
type CacheHealthChecker interface {
	HealthChecker
}

// SystemHealthChecker aggregates all health checks
type SystemHealthChecker interface {
	CheckAll(ctx context.Context) map[string]HealthStatus
}
