package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/CUknot/forum_backend/config"
	"github.com/CUknot/forum_backend/database"
	"github.com/CUknot/forum_backend/docs"
	"github.com/CUknot/forum_backend/logging"
	"github.com/CUknot/forum_backend/routes"
	"github.com/CUknot/forum_backend/websocket"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// @title           Forum API
// @version         1.0
// @description     API Server for the discussion forum
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	cfg, foundEnv, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid configuration")
	}

	logging.Init(cfg.LogLevel, cfg.LogFormat, nil)
	if !foundEnv {
		logging.Info().Msg("No .env file found, using system environment variables")
	}
	gin.SetMode(cfg.GinMode)

	// Initialize database
	if err := database.Connect(cfg.DSN()); err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := database.Migrate(); err != nil {
		logging.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// Set up Swagger info
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	websocket.InitHub(ctx)

	router, err := routes.NewRouter(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to set up router")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("port", cfg.Port).Msg("Server running")
		logging.Info().Msgf("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Server forced to shut down")
	}
}
