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
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/reputesol/reputesol-go/internal/api"
	"github.com/reputesol/reputesol-go/internal/api/handlers"
	"github.com/reputesol/reputesol-go/internal/config"
	"github.com/reputesol/reputesol-go/internal/database"
	"github.com/reputesol/reputesol-go/internal/logging"
	"github.com/reputesol/reputesol-go/internal/middleware"
	"github.com/reputesol/reputesol-go/internal/services"
	"github.com/reputesol/reputesol-go/internal/telemetry"
	"github.com/reputesol/reputesol-go/pkg/ledger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local development reads credentials from .env; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := telemetry.InitTelemetry(telemetry.TelemetryConfig{
		Enabled:        cfg.Telemetry.Enabled,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Environment:    cfg.Environment,
	}); err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetry.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to shutdown telemetry: %v\n", err)
		}
	}()

	logger := logging.NewLogger(cfg.LogLevel)

	// OTLP log bridge for deployments that ship logs alongside traces.
	otlpLogger, err := logging.NewOTLPLogger(logging.OTLPConfig{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Environment:    cfg.Environment,
		LogLevel:       cfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize OTLP logger: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otlpLogger.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to shutdown OTLP logger")
		}
	}()
	slogger := otlpLogger.Logger()

	// Initialize database for score history
	db, err := database.NewPostgresConnection(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// Initialize Redis for the read-path cache
	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	// Program gateway client (signs with the authority key server-side)
	ledgerClient := ledger.NewClient(&cfg.Ledger)

	// Datasources and aggregation
	gitcoinSource := services.NewGitcoinSource(&cfg.Gitcoin, logger)
	solanaSource := services.NewSolanaSource(&cfg.Solana, logger)
	aggregator := services.NewSignalAggregator(gitcoinSource, solanaSource, logger)

	// Account lifecycle and orchestration
	lifecycle := services.NewLifecycleManager(ledgerClient, logger)
	historyRepo := database.NewHistoryRepository(db.Pool)
	if err := historyRepo.EnsureSchema(context.Background()); err != nil {
		logger.WithError(err).Fatal("Failed to ensure score history schema")
	}
	orchestrator := services.NewUpdateOrchestrator(aggregator, lifecycle, historyRepo, logger)
	reader := services.NewScoreReader(lifecycle, redis, cfg.Cache.ScoreTTLDuration(), logger)

	scoreHandler := handlers.NewScoreHandler(reader, orchestrator, historyRepo, cfg.Solana.ExplorerClusterTag, logger)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))

	api.SetupRoutes(router, db, redis, ledgerClient, scoreHandler)

	// Create HTTP server with security timeouts
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slogger.Info("Application startup",
			"service", cfg.Telemetry.ServiceName,
			"version", cfg.Telemetry.ServiceVersion,
			"port", cfg.Server.Port,
			"event", "startup",
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slogger.Info("Application shutdown",
		"service", cfg.Telemetry.ServiceName,
		"event", "shutdown",
		"reason", "signal received",
	)

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited gracefully")
	return nil
}
