package handlers

import (
	"net/http"

	"tablebook/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles GET /health. It answers 503 while a store is down.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
