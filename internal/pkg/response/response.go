// internal/pkg/response/response.go
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeTooManyRequests = "RATE_LIMITED"
	CodeUnavailable     = "SERVICE_UNAVAILABLE"
	CodeInternal        = "INTERNAL_ERROR"
)

// APIResponse is the envelope of every JSON response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// APIError describes a failed request
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// Error writes an error envelope and aborts the handler chain
func Error(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func BadRequest(c *gin.Context, message string, details interface{}) {
	if message == "" {
		message = "Invalid request"
	}
	Error(c, http.StatusBadRequest, CodeBadRequest, message, details)
}

func NotFound(c *gin.Context, resource string) {
	Error(c, http.StatusNotFound, CodeNotFound, resource+" not found", nil)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(c, http.StatusInternalServerError, CodeInternal, message, nil)
}

func Unavailable(c *gin.Context, message string) {
	Error(c, http.StatusServiceUnavailable, CodeUnavailable, message, nil)
}
