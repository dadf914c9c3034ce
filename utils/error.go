package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error is a request-level failure carrying the HTTP status it maps to.
// Services return these; handlers surface them with RespondError.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *Error {
	return &Error{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NewUnauthorizedError(message string) *Error {
	return &Error{Code: http.StatusUnauthorized, Message: message}
}

func NewForbiddenError(message string) *Error {
	return &Error{Code: http.StatusForbidden, Message: message}
}

func NewNotFoundError(format string, args ...any) *Error {
	return &Error{Code: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) *Error {
	return &Error{Code: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidTransitionError names both the current and the requested status.
func NewInvalidTransitionError(current, requested string) *Error {
	return &Error{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("invalid status transition from %q to %q", current, requested),
	}
}

// RespondError writes err as a JSON error response. Known *Error values keep
// their status code; anything else becomes a generic 500.
func RespondError(c *gin.Context, err error) {
	logger := GetLogger()

	var apiErr *Error
	if errors.As(err, &apiErr) {
		logger.Warn("Request failed", zap.Int("status", apiErr.Code), zap.String("message", apiErr.Message))
		c.JSON(apiErr.Code, ErrorResponse{Message: apiErr.Message})
		return
	}

	logger.Error("Unexpected error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error"})
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
