package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"main/internal/api/middleware"
	"main/internal/api/router"
	"main/internal/auth"
	"main/internal/config"
	"main/internal/gateway"
	"main/internal/loggers"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger
	log, err := loggers.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	log.Info("Starting API Gateway",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Server.Port),
		zap.Int("upstream_services", len(cfg.Upstream.Services)),
	)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "API Gateway",
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ErrorHandler: middleware.ErrorHandlerFiber,
	})

	tokens := auth.NewTokenService(cfg, log)
	provider := auth.NewStaticCredentialProvider()
	proxy := gateway.NewProxy(cfg, log)

	router.SetupRouter(app, cfg, log, tokens, provider, proxy)

	// Start server in a goroutine
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	go func() {
		log.Info("Server starting", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Fatal("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped gracefully")
}
