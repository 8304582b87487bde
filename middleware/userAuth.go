package middleware

import (
	"context"
	"net/http"
	"strings"

	"tablebook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthSessionLookup returns the stored launch session, or nil when it is unknown.
type AuthSessionLookup interface {
	Get(ctx context.Context, sessionID string) (*utils.AuthSession, error)
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
		"code":  0,
	})
}

// JWTAuthUserMiddleware accepts a bearer token only while its launch session exists and
// carries the same token hash. It sets the user id, session id and raw token in the context.
func JWTAuthUserMiddleware(sessions AuthSessionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c, "Insufficient authorization")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			unauthorized(c, "Insufficient authorization")
			return
		}

		userID, sessionID, err := utils.ExtractIDsFromToken(tokenString)
		if err != nil || userID == "" || sessionID == "" {
			unauthorized(c, "Insufficient authorization")
			return
		}

		session, err := sessions.Get(c.Request.Context(), sessionID)
		if err != nil {
			utils.GetLogger().Error("Auth session lookup failed", zap.String("sessionID", sessionID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Authorization temporarily unavailable"})
			return
		}
		if session == nil || session.UserID != userID || session.TokenHash != utils.HashToken(tokenString) {
			unauthorized(c, "Token mismatch")
			return
		}

		c.Set(utils.CtxUserID, userID)
		c.Set(utils.CtxSessionID, sessionID)
		c.Set(utils.CtxAccessToken, tokenString)
		c.Next()
	}
}
