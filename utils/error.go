package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every error the API writes. Handlers build the same shape with gin.H.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler turns a panic in a handler into a 500 with the standard error body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				GetLogger().Error("Handler panicked",
					zap.Any("panic", rec),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				if !c.Writer.Written() {
					c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError logs a client-facing failure and writes it. The caller still decides whether to abort.
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message,
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("details", details),
	)
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}
