package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hackathon-team-api/internal/client"
	"hackathon-team-api/internal/config"
	"hackathon-team-api/internal/database"
	"hackathon-team-api/internal/job"
	"hackathon-team-api/internal/metrics"
	"hackathon-team-api/internal/repository"
	"hackathon-team-api/internal/router"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Team Service",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("notification_api_url", cfg.NotificationAPI.BaseURL),
		zap.String("user_api_url", cfg.UserAPI.BaseURL),
	)

	// Initialize metrics
	m := metrics.New()

	// Membership writes need the database, so startup waits for it
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 2*time.Minute)
	db, err := database.Connect(connectCtx, database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, 10, 5*time.Second, logger)
	cancelConnect()
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)
	logger.Info("Database connected successfully")

	if err := database.AutoMigrate(db, logger); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	if err := database.RegisterMetricsCallbacks(db, m); err != nil {
		logger.Warn("Failed to register database metrics callbacks", zap.Error(err))
	}
	stopDBStats := database.StartDBStatsCollector(db, m, 15*time.Second)
	defer close(stopDBStats)

	businessCollector := metrics.NewBusinessMetricsCollector(db, m, logger, 60*time.Second)
	businessCollector.Start()
	defer businessCollector.Stop()

	// Redis is optional
	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Addr != "" {
		redisClient, err = database.NewRedis(cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis unavailable, team cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// External clients
	var userClient client.UserClient = client.NoOpUserClient{}
	if cfg.UserAPI.BaseURL != "" {
		userClient = client.NewUserClient(cfg.UserAPI.BaseURL, cfg.UserAPI.Timeout, logger, m)
	} else {
		logger.Warn("User API not configured, invitee accounts will be linked on first visit only")
	}

	notificationClient := client.NewNoOpNotificationClient(logger)
	if cfg.NotificationAPI.BaseURL != "" {
		notificationClient = client.NewNotificationClient(
			cfg.NotificationAPI.BaseURL,
			cfg.NotificationAPI.InternalAPIKey,
			cfg.NotificationAPI.Timeout,
			logger,
			m,
		)
	} else {
		logger.Warn("Notification API not configured, queued notifications will be marked FAILED")
	}

	// Outbox delivery
	if cfg.Outbox.Enabled {
		outboxJob := job.NewOutboxJob(
			repository.NewOutboxRepository(db),
			notificationClient,
			m,
			logger,
			cfg.Outbox.BatchSize,
			cfg.Outbox.MaxAttempts,
			cfg.Outbox.RetryBackoff,
		)
		scheduler, err := job.NewScheduler(cfg.Outbox.Schedule, outboxJob, logger)
		if err != nil {
			logger.Fatal("Invalid outbox schedule", zap.String("schedule", cfg.Outbox.Schedule), zap.Error(err))
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		logger.Info("Outbox delivery scheduled", zap.String("schedule", cfg.Outbox.Schedule))
	}

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		DB:                   db,
		Logger:               logger,
		JWTSecret:            cfg.JWT.Secret,
		BasePath:             cfg.Server.BasePath,
		AllowedOrigins:       cfg.Server.AllowedOrigins,
		Metrics:              m,
		Redis:                redisClient,
		TeamCacheTTL:         cfg.Redis.TeamTTL,
		UserClient:           userClient,
		JoinLinkBaseURL:      cfg.Invite.JoinLinkBaseURL,
		RequireVerifiedEmail: cfg.Invite.RequireVerifiedEmail,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Team Service started", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}
