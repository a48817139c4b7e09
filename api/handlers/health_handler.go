package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/mediagrab-go/internal/domain"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	version string
	mode    domain.Mode
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, mode domain.Mode) *HealthHandler {
	return &HealthHandler{
		version: version,
		mode:    mode,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string      `json:"status"`
	Version string      `json:"version"`
	Mode    domain.Mode `json:"mode"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
		Mode:    h.mode,
	})
}
