package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/joshua-takyi/events/internal/config"
	"github.com/joshua-takyi/events/internal/connect"
	"github.com/joshua-takyi/events/internal/container"
	"github.com/joshua-takyi/events/internal/helpers"
	"github.com/joshua-takyi/events/internal/middleware"
	"github.com/joshua-takyi/events/internal/models"
	"github.com/joshua-takyi/events/internal/routes"
	"github.com/joshua-takyi/events/internal/services"
	"github.com/supabase-community/supabase-go"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting events API server",
		"environment", cfg.Environment,
		"storage", cfg.StorageDriver,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	var supaClient *supabase.Client
	if cfg.SupabaseEnabled() {
		supaClient, err = connect.InitSupabase(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			logger.Error("Failed to connect to Supabase", "error", err)
			os.Exit(1)
		}
		logger.Info("Connected to Supabase successfully")
	}

	repo, closeStore, err := openStore(ctx, cfg, supaClient, logger)
	if err != nil {
		logger.Error("Failed to initialise storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	var opts []services.EventServiceOption
	if cfg.CloudinaryEnabled() {
		cld, err := connect.CloudinaryCredentials(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Error("Failed to connect to Cloudinary", "error", err)
			os.Exit(1)
		}
		opts = append(opts, services.WithCoverUploader(helpers.NewCloudinaryUploader(cld)))
		logger.Info("Cloudinary cover uploads enabled")
	}

	tokenValidator, err := helpers.NewTokenValidator(ctx, cfg.JWTSecret, cfg.JWKSURL)
	if err != nil {
		logger.Error("Failed to initialise token validation", "error", err)
		os.Exit(1)
	}

	var refresher middleware.TokenRefresher
	if supaClient != nil {
		refresher = supaClient.Auth
	}

	appContainer := container.NewContainer(
		logger,
		tokenValidator,
		refresher,
		cfg.AllowedOrigins,
		services.NewEventService(repo, opts...),
	)

	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	tokenValidator.Close()
	if err := closeStore(); err != nil {
		logger.Error("Error closing storage", "error", err)
	}

	logger.Info("Server exited")
}

// openStore builds the events repository for the configured driver and
// returns a function that releases its connection.
func openStore(ctx context.Context, cfg *config.Config, supaClient *supabase.Client, logger *slog.Logger) (models.EventsRepo, func() error, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres, config.DriverSQLite:
		if cfg.AutoMigrate {
			if err := connect.RunMigrations(cfg.StorageDriver, cfg.DatabaseURL, logger); err != nil {
				return nil, nil, err
			}
		}
		db, err := connect.OpenSQL(ctx, cfg.StorageDriver, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Connected to SQL database successfully", "driver", cfg.StorageDriver)
		return models.SQLNewRepo(db), db.Close, nil

	case config.DriverSupabase:
		if supaClient == nil {
			return nil, nil, fmt.Errorf("supabase client is not configured")
		}
		return models.SupabaseNewRepo(supaClient), func() error { return nil }, nil

	case config.DriverMongoDB:
		client, err := connect.MongoDBConnect(ctx, cfg.MongoDBURI, cfg.MongoDBPassword)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Connected to MongoDB successfully")
		return models.MongodbNewRepo(client, cfg.MongoDBName), func() error {
			return connect.MongoDBDisconnect(client)
		}, nil

	case config.DriverMemory:
		logger.Warn("Using in-memory storage; events are lost on restart")
		return models.NewMemoryRepo(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
}

func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
