package infrastructure

import (
	"context"

	"gorm.io/gorm"
	"productapi.app/internal/ports"
)

// DatabaseHealthChecker implements database health checking
type DatabaseHealthChecker struct {
	db *gorm.DB
}

// NewDatabaseHealthChecker creates a new database health checker. A nil db
// reports the component as disabled.
func NewDatabaseHealthChecker(db *gorm.DB) *DatabaseHealthChecker {
	return &DatabaseHealthChecker{db: db}
}

// Check verifies database connectivity
func (d *DatabaseHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "database",
		Details:   make(map[string]interface{}),
	}

	if d.db == nil {
		status.Status = ports.StatusDisabled
		status.Details["connected"] = false
		return status
	}

	sqlDB, err := d.db.DB()
	if err != nil {
		status.Status = ports.StatusUnhealthy
		status.Error = "failed to get underlying database connection"
		return status
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		status.Status = ports.StatusUnhealthy
		status.Error = err.Error()
		return status
	}

	stats := sqlDB.Stats()
	status.Status = ports.StatusHealthy
	status.Details["connected"] = true
	status.Details["open_connections"] = stats.OpenConnections
	status.Details["in_use"] = stats.InUse
	return status
}
