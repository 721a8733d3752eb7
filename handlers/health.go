package handlers

import (
	"net/http"

	"tradelink/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Deps map[string]utils.Pinger
}

func NewHealthHandler(deps map[string]utils.Pinger) *HealthHandler {
	return &HealthHandler{Deps: deps}
}

// Handler handles GET /health.
func (h *HealthHandler) Handler(c *gin.Context) {
	status := utils.CheckHealth(c.Request.Context(), h.Deps)
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "message": "Hi, I'm Trade Link"})
}
