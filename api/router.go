package api

import (
	"context"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/video-downloader-go/api/handlers"
	"github.com/yourusername/video-downloader-go/api/middleware"
	"github.com/yourusername/video-downloader-go/internal/app"
	"github.com/yourusername/video-downloader-go/internal/domain"
	"github.com/yourusername/video-downloader-go/web"
)

// SetupRouter sets up the HTTP router for the local web UI. Downloads
// started over HTTP run under baseCtx.
func SetupRouter(
	baseCtx context.Context,
	controller *app.FormController,
	config *domain.DownloadConfig,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(controller)
	router.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		formHandler := handlers.NewFormHandler(baseCtx, controller, config, log)
		v1.GET("/state", formHandler.GetState)
		v1.POST("/submit", formHandler.Submit)
		v1.POST("/download", formHandler.StartDownload)
		v1.GET("/file", formHandler.GetFile)

		wsHandler := handlers.NewStateWebSocketHandler(controller, log)
		v1.GET("/ws", wsHandler.HandleWebSocket)
	}

	// Serve the embedded form page
	templatesFS := web.GetTemplatesFS()
	router.StaticFS("/static", http.FS(web.GetStaticFS()))
	router.GET("/", func(c *gin.Context) {
		serveFile(c, templatesFS, "index.html")
	})

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Redirect(http.StatusFound, "/")
	})

	return router
}

// serveFile serves a file from the embedded filesystem
func serveFile(c *gin.Context, fsys fs.FS, filePath string) {
	content, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		c.String(http.StatusNotFound, "File not found: %v", err)
		return
	}

	contentType := "application/octet-stream"
	if strings.HasSuffix(filePath, ".html") {
		contentType = "text/html; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, content)
}
