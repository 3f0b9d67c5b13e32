package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"bakery/internal/config"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	application, err := newApplication(cfg, logger)
	if err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.AppPort))
		if err := application.app.Listen(cfg.AppPort); err != nil {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	if err := application.app.Shutdown(); err != nil {
		logger.Error("error during fiber shutdown", zap.Error(err))
	}
	if err := application.Close(); err != nil {
		logger.Error("error releasing resources", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}
