package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clefworks/midigen/internal/config"
)

type HealthHandler struct {
	cfg     *config.Config
	version string
}

func NewHealthHandler(cfg *config.Config, version string) *HealthHandler {
	return &HealthHandler{cfg: cfg, version: version}
}

// HealthCheck returns the health status of the server
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"version":     h.version,
		"environment": h.cfg.Environment,
		"output_dir":  h.cfg.OutputDir,
	})
}
