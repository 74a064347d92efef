package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-paper-trader/internal/scheduler/config"
	delivery "golang-paper-trader/internal/scheduler/delivery/http"
	schedulerservice "golang-paper-trader/internal/scheduler/service"
	"golang-paper-trader/internal/trading/repository"
	"golang-paper-trader/pkg/logger"
	"golang-paper-trader/pkg/postgres"
	"golang-paper-trader/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the scheduling service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Scheduling Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db.DB)
	positionRepo := repository.NewPositionRepository(db.DB)
	orderRepo := repository.NewOrderRepository(db.DB)
	txRepo := repository.NewTransactionRepository(db.DB)
	snapshotRepo := repository.NewSnapshotRepository(db.DB)
	configRepo := repository.NewStrategyConfigRepository(db.DB)

	// Initialize services
	schedulerSvc := schedulerservice.NewSchedulerService(cfg, redisClient.Client, appLogger)
	portfolioSvc := schedulerservice.NewPortfolioService(cfg, accountRepo, positionRepo, orderRepo, txRepo, snapshotRepo, redisClient.Client, appLogger)
	configSvc := schedulerservice.NewStrategyConfigService(configRepo, appLogger)

	// Start scheduler service
	if err := schedulerSvc.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start scheduler", logger.ErrorField(err))
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	portfolioHandler := delivery.NewPortfolioHandler(portfolioSvc, appLogger)
	portfolioHandler.RegisterRoutes(apiV1.Group("/portfolio"))

	configHandler := delivery.NewStrategyConfigHandler(configSvc, appLogger)
	configHandler.RegisterRoutes(apiV1.Group("/strategy-config"))

	phaseHandler := delivery.NewPhaseHandler(schedulerSvc, appLogger)
	phaseHandler.RegisterRoutes(apiV1.Group("/phases"))

	// Start the HTTP server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start HTTP server", logger.ErrorField(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the service
	<-ctx.Done()

	appLogger.Info("Shutting down scheduling service...")
	schedulerSvc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", logger.ErrorField(err))
	}
	appLogger.Info("Scheduling service stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "scheduling-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-scheduler.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing scheduling-service CLI: %s\n", err)
		os.Exit(1)
	}
}
