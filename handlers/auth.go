package handlers

import (
	"errors"
	"net/http"

	"tablebook/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves sign-in and profile endpoints.
type UserHandler struct {
	UserService user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{UserService: svc}
}

// TelegramAuthHandler handles POST /api/auth/telegram.
func (h *UserHandler) TelegramAuthHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		InitData string `json:"init_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid telegram auth request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.UserService.AuthenticateTelegram(c.Request.Context(), req.InitData)
	if err != nil {
		if errors.Is(err, user.ErrInvalidInitData) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Telegram launch data"})
			return
		}
		logger.Error("Telegram sign-in failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-in failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SignOutHandler handles POST /api/auth/signout and revokes the current token.
func (h *UserHandler) SignOutHandler(c *gin.Context) {
	logger := getLogger(c)
	sessionID := currentSessionID(c)
	if err := h.UserService.SignOut(c.Request.Context(), sessionID); err != nil {
		logger.Error("Sign-out failed", zap.String("sessionID", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sign-out failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}
