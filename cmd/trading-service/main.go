package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang-paper-trader/internal/trading/config"
	"golang-paper-trader/internal/trading/delivery/consumer"
	"golang-paper-trader/internal/trading/repository"
	"golang-paper-trader/internal/trading/service"
	"golang-paper-trader/pkg/common"
	"golang-paper-trader/pkg/logger"
	"golang-paper-trader/pkg/postgres"
	"golang-paper-trader/pkg/redis"
	"golang-paper-trader/pkg/telegram"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the trading service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	appLogger.Info("Starting Trading Service", zap.String("name", cfg.App.Name))

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
		appLogger.Fatal("Failed to initialize database", zap.Error(err))
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
		appLogger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Create the consumer group if it doesn't exist
	// MKSTREAM creates the stream if it doesn't exist
	if err := redisClient.XGroupCreateMkStream(context.Background(), common.RedisStreamTradingPhase, common.RedisStreamGroup, "0").Err(); err != nil {
		if err.Error() != "BUSYGROUP Consumer Group name already exists" {
			appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
		}
	}

	// Initialize Telegram notifier
	notifier := telegram.NewNoopNotifier()
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxMessagePerMinute)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", zap.Error(err))
		}
	}

	// Initialize repositories
	priceBarRepo := repository.NewPriceBarRepository(db.DB)
	configRepo := repository.NewStrategyConfigRepository(db.DB)
	orderRepo := repository.NewOrderRepository(db.DB)
	positionRepo := repository.NewPositionRepository(db.DB)
	accountRepo := repository.NewAccountRepository(db.DB)
	signalRepo := repository.NewSignalRepository(db.DB)
	txRepo := repository.NewTransactionRepository(db.DB)
	snapshotRepo := repository.NewSnapshotRepository(db.DB)

	// Initialize services
	resolver := service.NewStrategyResolver(configRepo, appLogger)
	signalSvc := service.NewSignalService(cfg, priceBarRepo, resolver, orderRepo, positionRepo, accountRepo, signalRepo, notifier, appLogger)
	settlementSvc := service.NewSettlementService(cfg, priceBarRepo, resolver, orderRepo, positionRepo, accountRepo, txRepo, snapshotRepo, redisClient.Client, notifier, appLogger)
	phaseSvc := service.NewPhaseService(cfg, redisClient.Client, signalSvc, settlementSvc, appLogger)

	// Initialize and start the Redis consumer
	redisConsumer := consumer.NewRedisConsumer(cfg, redisClient.Client, phaseSvc, appLogger)
	redisConsumer.Start(ctx)

	appLogger.Info("Trading service started. Waiting for phases...")

	// Wait for interrupt signal to gracefully shut down the service
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down trading service...")
	cancel()
	redisConsumer.Stop()
	appLogger.Info("Trading service stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "trading-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-trading.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing trading-service CLI: %s\n", err)
		os.Exit(1)
	}
}
