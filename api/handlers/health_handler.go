package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/video-downloader-go/internal/app"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// HealthHandler handles health check requests
type HealthHandler struct {
	controller *app.FormController
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(controller *app.FormController) *HealthHandler {
	return &HealthHandler{
		controller: controller,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Busy    bool   `json:"busy"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
		Busy:    h.controller.IsBusy(),
	})
}
