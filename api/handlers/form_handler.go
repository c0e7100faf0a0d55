package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/video-downloader-go/internal/app"
	"github.com/yourusername/video-downloader-go/internal/domain"
)

// FormHandler exposes the form controller over HTTP
type FormHandler struct {
	controller *app.FormController
	config     *domain.DownloadConfig
	baseCtx    context.Context
	logger     *zap.Logger
}

// NewFormHandler creates a new form handler. Background downloads run
// under baseCtx rather than the triggering request's context.
func NewFormHandler(baseCtx context.Context, controller *app.FormController, config *domain.DownloadConfig, logger *zap.Logger) *FormHandler {
	return &FormHandler{
		controller: controller,
		config:     config,
		baseCtx:    baseCtx,
		logger:     logger,
	}
}

// SubmitRequest represents a request to submit a link
type SubmitRequest struct {
	Link     string `json:"link"`
	Platform string `json:"platform"`
}

// GetState handles GET /api/v1/state
func (h *FormHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.State())
}

// Submit handles POST /api/v1/submit
func (h *FormHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	platform, err := domain.ParsePlatform(req.Platform)
	if err != nil {
		// Let the controller record the rejection in the form state
		platform = domain.Platform(req.Platform)
	}

	err = h.controller.Submit(c.Request.Context(), req.Link, platform)
	switch {
	case errors.Is(err, domain.ErrSubmitInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyLink), errors.Is(err, domain.ErrInvalidPlatform):
		c.JSON(http.StatusBadRequest, h.controller.State())
	default:
		// Backend failures are part of the state's error text
		c.JSON(http.StatusOK, h.controller.State())
	}
}

// StartDownload handles POST /api/v1/download
func (h *FormHandler) StartDownload(c *gin.Context) {
	err := h.controller.StartDownload(h.baseCtx)
	switch {
	case errors.Is(err, domain.ErrDownloadInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotReady):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		h.logger.Error("Failed to start download", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusAccepted, h.controller.State())
	}
}

// GetFile handles GET /api/v1/file
func (h *FormHandler) GetFile(c *gin.Context) {
	path := h.controller.State().SavedPath
	if path == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no saved file"})
		return
	}
	if _, err := os.Stat(path); err != nil {
		h.logger.Warn("Saved file is gone", zap.String("path", path), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "no saved file"})
		return
	}

	name := domain.DefaultFileName
	if h.config != nil && h.config.FileName != "" {
		name = h.config.FileName
	}
	c.FileAttachment(path, name)
}
