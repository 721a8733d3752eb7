package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string   `json:"message"`
	Details string   `json:"details,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// ErrorHandler catches panics and answers with a structured 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.FullPath()),
					zap.String("method", c.Request.Method))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	logError(status, message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// JSONFieldError reports which request fields failed validation.
func JSONFieldError(c *gin.Context, message string, fields []string) {
	logError(http.StatusBadRequest, message, zap.Strings("fields", fields))
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: message, Fields: fields})
}

func logError(status int, message string, fields ...zap.Field) {
	fields = append(fields, zap.Int("status", status))
	if status >= http.StatusInternalServerError {
		GetLogger().Error(message, fields...)
		return
	}
	GetLogger().Warn(message, fields...)
}
