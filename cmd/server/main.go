package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/video-downloader-go/api"
	"github.com/yourusername/video-downloader-go/api/handlers"
	"github.com/yourusername/video-downloader-go/internal/app"
	"github.com/yourusername/video-downloader-go/internal/infrastructure"
	"github.com/yourusername/video-downloader-go/pkg/logger"
)

var configPath = flag.String("config", "", "Path to config file")

func main() {
	flag.Parse()

	if err := app.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting video downloader server",
		zap.String("version", handlers.Version),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("backend", config.Backend.Origin),
		zap.String("output_dir", config.Download.OutputDir))

	if err := os.MkdirAll(config.Download.OutputDir, 0755); err != nil {
		log.Fatal("Failed to create output directory", zap.Error(err))
	}

	controller := app.NewFormController(
		infrastructure.NewBackendClient(&config.Backend, log),
		infrastructure.NewStreamDownloader(&config.Download, log),
		infrastructure.NewFileSaver(config.Download.OutputDir, log),
		infrastructure.NewNotificationService(&config.Notification, log),
		&config.Download,
		log,
	)

	// Background downloads are cancelled on shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := api.SetupRouter(ctx, controller, &config.Download, log)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	exitCode := 0
	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		exitCode = 1
	}

	stop()
	controller.Close()

	log.Info("Server exited")
	log.Sync()
	os.Exit(exitCode)
}
