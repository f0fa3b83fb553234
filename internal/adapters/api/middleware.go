package api

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"productapi.app/internal/ports"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// requestIDMiddleware assigns every request a fresh UUID, exposed to
// handlers and echoed in the X-Request-ID response header
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// loggingMiddleware writes one structured line per completed request
func loggingMiddleware(logger ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := float64(time.Since(start).Microseconds()) / 1000
		status := c.Writer.Status()
		fields := []ports.Field{
			ports.F("request_id", requestID(c)),
			ports.F("path", c.Request.URL.Path),
			ports.F("method", c.Request.Method),
			ports.F("status_code", status),
			ports.F("duration_ms", math.Round(duration*100)/100),
			ports.F("client_ip", c.ClientIP()),
		}

		msg := fmt.Sprintf("%s %s - %d", c.Request.Method, c.Request.URL.Path, status)
		if status >= http.StatusInternalServerError {
			logger.Error(msg, fields...)
			return
		}
		logger.Info(msg, fields...)
	}
}

// recoveryMiddleware turns a handler panic into a JSON 500
func recoveryMiddleware(logger ports.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error("Unhandled exception",
			ports.F("request_id", requestID(c)),
			ports.F("path", c.Request.URL.Path),
			ports.F("method", c.Request.Method),
			ports.F("error", fmt.Sprint(recovered)))

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":      "Internal server error",
			"request_id": requestID(c),
			"timestamp":  time.Now().UTC(),
		})
	})
}

func requestID(c *gin.Context) string {
	if id := c.GetString(requestIDKey); id != "" {
		return id
	}
	return "unknown"
}
