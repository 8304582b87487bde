package handlers

import (
	"net/http"

	"tablebook/models"
	"tablebook/services/gate"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GateHandler exposes the redirect gate to the mini app's router.
type GateHandler struct {
	GateService gate.GateService
}

func NewGateHandler(svc gate.GateService) *GateHandler {
	return &GateHandler{GateService: svc}
}

// EvaluateGateHandler handles POST /api/gate/evaluate. The body carries the current
// location and the launch start param; the session comes from the token.
func (h *GateHandler) EvaluateGateHandler(c *gin.Context) {
	logger := getLogger(c)

	var in models.GateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if in.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	userID, _ := currentUserID(c)
	sessionID := currentSessionID(c)
	result, err := h.GateService.Evaluate(c.Request.Context(), sessionID, userID, in)
	if err != nil {
		logger.Error("Gate evaluation failed", zap.String("sessionID", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gate evaluation failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}
