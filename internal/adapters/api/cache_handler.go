package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"productapi.app/internal/ports"
	"productapi.app/pkg/errors"
	"productapi.app/pkg/validation"
)

// cacheStats handles GET /cache/stats requests
func (s *HTTPServerAdapter) cacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.cache.Stats(c.Request.Context()))
}

// clearCache handles DELETE /cache requests
func (s *HTTPServerAdapter) clearCache(c *gin.Context) {
	cleared := s.cache.ClearAll(c.Request.Context())
	s.logger.Info("Cache clear requested",
		ports.F("request_id", requestID(c)),
		ports.F("cleared", cleared))

	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}

// deleteCacheKey handles DELETE /cache/keys/:key requests
func (s *HTTPServerAdapter) deleteCacheKey(c *gin.Context) {
	key, ok := validation.CacheKey(c.Param("key"))
	if !ok {
		s.handleError(c, errors.NewValidationError("cache key must be non-empty and contain no whitespace"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":     key,
		"deleted": s.cache.Delete(c.Request.Context(), key),
	})
}
