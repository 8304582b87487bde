package handlers

import (
	"errors"
	"net/http"

	"tablebook/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *UserHandler) respondUserError(c *gin.Context, userID string, err error) {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, user.ErrInvalidPhone):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		getLogger(c).Error("User request failed", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// GetMeHandler handles GET /api/users/me.
func (h *UserHandler) GetMeHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	usr, err := h.UserService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.respondUserError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// UpdatePhoneHandler handles PUT /api/users/me/phone.
func (h *UserHandler) UpdatePhoneHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	usr, err := h.UserService.UpdatePhone(c.Request.Context(), userID, req.Phone)
	if err != nil {
		h.respondUserError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// CompleteOnboardingHandler handles POST /api/users/me/onboarding/complete.
func (h *UserHandler) CompleteOnboardingHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	usr, err := h.UserService.CompleteOnboarding(c.Request.Context(), userID)
	if err != nil {
		h.respondUserError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}
