package infrastructure

import (
	"context"

	"productapi.app/internal/ports"
)

// SystemHealthChecker aggregates all health checks
type SystemHealthChecker struct {
	databaseChecker ports.DatabaseHealthChecker
	cacheChecker    ports.CacheHealthChecker
	service         ServiceInfo
}

// ServiceInfo identifies the running service in health output
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

// SystemHealthCheckerConfig holds the configuration for creating a system health checker
type SystemHealthCheckerConfig struct {
	DatabaseChecker ports.DatabaseHealthChecker
	CacheChecker    ports.CacheHealthChecker
	Service         ServiceInfo
}

// NewSystemHealthChecker creates a new system health checker
func NewSystemHealthChecker(config SystemHealthCheckerConfig) *SystemHealthChecker {
	return &SystemHealthChecker{
		databaseChecker: config.DatabaseChecker,
		cacheChecker:    config.CacheChecker,
		service:         config.Service,
	}
}

// CheckAll performs health checks on all components
func (s *SystemHealthChecker) CheckAll(ctx context.Context) map[string]ports.HealthStatus {
	results := make(map[string]ports.HealthStatus)

	if s.databaseChecker != nil {
		results["database"] = s.databaseChecker.Check(ctx)
	}

	if s.cacheChecker != nil {
		results["cache"] = s.cacheChecker.Check(ctx)
	}

	results["service"] = ports.HealthStatus{
		Component: "service",
		Status:    ports.StatusHealthy,
		Details: map[string]interface{}{
			"name":        s.service.Name,
			"version":     s.service.Version,
			"environment": s.service.Environment,
		},
	}

	return results
}

// AllHealthy reports whether no component in results is unhealthy
func AllHealthy(results map[string]ports.HealthStatus) bool {
	for _, status := range results {
		if !status.Healthy() {
			return false
		}
	}
	return true
}
