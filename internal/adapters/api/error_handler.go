package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"productapi.app/internal/ports"
	errorspkg "productapi.app/pkg/errors"
)

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// handleError handles different types of application errors
func (s *HTTPServerAdapter) handleError(c *gin.Context, err error) {
	var appErr *errorspkg.AppError
	var statusCode int
	var message string

	if !errors.As(err, &appErr) {
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	} else {
		switch appErr.Type {
		case errorspkg.ErrorTypeValidation:
			statusCode = http.StatusBadRequest
			message = appErr.Message
		case errorspkg.ErrorTypeNotFound:
			statusCode = http.StatusNotFound
			message = appErr.Message
		case errorspkg.ErrorTypeUnavailable:
			statusCode = http.StatusServiceUnavailable
			message = appErr.Message
		default:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		}
	}

	if statusCode >= http.StatusInternalServerError && s.logger != nil {
		s.logger.Error("Request failed",
			ports.F("request_id", requestID(c)),
			ports.F("path", c.Request.URL.Path),
			ports.F("error", err.Error()))
	}

	c.JSON(statusCode, ErrorResponse{Error: message, RequestID: c.GetString(requestIDKey)})
}

// bindingError converts a gin binding failure into a validation error
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errorspkg.NewValidationError("invalid value for " + fe.Field() + ": failed " + fe.Tag() + " rule")
	}
	return errorspkg.NewValidationError(err.Error())
}
