package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"productapi.app/internal/adapters/infrastructure"
	"productapi.app/internal/core/items"
	"productapi.app/internal/ports"
)

// ItemsQuery represents the query string of GET /items
type ItemsQuery struct {
	Count int `form:"count,default=10" binding:"min=1,max=100"`
}

// ItemsResponse represents generated sample items
type ItemsResponse struct {
	Items     []items.Item `json:"items"`
	Count     int          `json:"count"`
	RequestID string       `json:"request_id"`
}

// HealthResponse represents the liveness payload
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// HealthDetailsResponse represents per-component health
type HealthDetailsResponse struct {
	Status     string                        `json:"status"`
	Timestamp  time.Time                     `json:"timestamp"`
	Components map[string]ports.HealthStatus `json:"components"`
}

// root handles GET / requests
func (s *HTTPServerAdapter) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": s.config.ServiceName,
		"version": s.config.Version,
		"endpoints": gin.H{
			"health":         "/health",
			"health_details": "/health/details",
			"items":          "/items?count=10",
			"error":          "/error",
			"products":       "/products?category=books&limit=100&offset=0",
			"product":        "/products/{id}",
			"product_count":  "/products/count?category=books",
			"cache_stats":    "/cache/stats",
			"metrics":        "/metrics",
		},
	})
}

// healthCheck handles GET /health requests
func (s *HTTPServerAdapter) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    ports.StatusHealthy,
		Timestamp: time.Now().UTC(),
		Service:   s.config.ServiceName,
		Version:   s.config.Version,
	})
}

// healthDetails handles GET /health/details requests
func (s *HTTPServerAdapter) healthDetails(c *gin.Context) {
	results := s.health.CheckAll(c.Request.Context())

	status, code := ports.StatusHealthy, http.StatusOK
	if !infrastructure.AllHealthy(results) {
		status, code = ports.StatusUnhealthy, http.StatusServiceUnavailable
	}

	c.JSON(code, HealthDetailsResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Components: results,
	})
}

// getItems handles GET /items requests
func (s *HTTPServerAdapter) getItems(c *gin.Context) {
	var query ItemsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.handleError(c, bindingError(err))
		return
	}

	generated, err := s.items.Generate(c.Request.Context(), query.Count)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ItemsResponse{
		Items:     generated,
		Count:     len(generated),
		RequestID: requestID(c),
	})
}

// triggerError handles GET /error requests with a deliberate 500
func (s *HTTPServerAdapter) triggerError(c *gin.Context) {
	id := requestID(c)
	s.logger.Error("Intentional error triggered for testing",
		ports.F("request_id", id),
		ports.F("path", c.Request.URL.Path),
		ports.F("method", c.Request.Method))

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":      "Intentional error for testing purposes",
		"message":    "This endpoint intentionally returns a 500 error",
		"request_id": id,
		"timestamp":  time.Now().UTC(),
	})
}
