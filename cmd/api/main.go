package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"contrastboard/infrastructure/config"
	"contrastboard/infrastructure/di"
	"contrastboard/interfaces/http/server"
)

func main() {
	// Cancel on interrupt for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, cleanup, err := di.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	container.Logger.Info("Configuration loaded",
		zap.String("environment", cfg.Environment),
		zap.Float64("contrastThreshold", cfg.Domain.ContrastThreshold),
		zap.String("idStrategy", string(cfg.Domain.IDStrategy)),
		zap.Bool("metrics", cfg.EnableMetrics),
	)

	srvCfg := server.DefaultConfig(cfg.ServerAddress)
	srvCfg.ShutdownTimeout = cfg.ShutdownTimeout
	if err := server.Run(ctx, srvCfg, container.Handler, container.Logger); err != nil {
		container.Logger.Error("Server stopped with error", zap.Error(err))
	}

	// Clean up resources
	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}
