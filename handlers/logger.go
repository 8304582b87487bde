package handlers

import (
	"tablebook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves a Zap logger from the Gin context or falls back to the app logger
// tagged with the request route.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger().With(
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
	)
}

// currentUserID returns the user id the auth middleware put into the context.
func currentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(utils.CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// currentSessionID returns the launch session id from the token.
func currentSessionID(c *gin.Context) string {
	return c.GetString(utils.CtxSessionID)
}
