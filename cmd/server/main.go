package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/config"
	"github.com/Xyleee/api-devguidance/internal/database"
	"github.com/Xyleee/api-devguidance/internal/handlers"
	"github.com/Xyleee/api-devguidance/internal/realtime"
	"github.com/Xyleee/api-devguidance/internal/routes"
	"github.com/Xyleee/api-devguidance/internal/services"
	"github.com/Xyleee/api-devguidance/pkg/logger"
)

func main() {
	// 0. Load Config & Initialize Logger
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Env)

	logger.Info().Str("environment", cfg.Env).Msg("Starting DevGuidance API...")

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Connect Database
	database.Connect()
	database.InitRedis()

	logger.Info().Msg("Running database migrations...")
	if err := database.Migrate(database.DB); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}
	logger.Info().Msg("Database migrations complete")

	// 2. Messaging core
	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	registry := realtime.NewRegistry(rootCtx, cfg.HeartbeatInterval())
	conversations := services.NewConversationService(
		services.NewGormMessageStore(database.DB),
		services.NewMentorshipGate(database.DB),
		registry,
	)
	handlers.InitMessaging(registry, conversations)

	// 3. Object storage
	if cfg.StorageConfigured() {
		uploader, err := services.NewR2Uploader(rootCtx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to configure object storage")
		}
		handlers.SetUploader(uploader)
	} else {
		logger.Warn().Msg("R2 credentials missing, file uploads are disabled")
	}

	// 4. Router
	r := routes.NewRouter()

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Message streams stay open indefinitely
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server gracefully...")

	// Close live connections first so their handlers return
	registry.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
