package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/arcnft/marketplace-sync/internal/adapter"
	"github.com/arcnft/marketplace-sync/internal/config"
	"github.com/arcnft/marketplace-sync/internal/logger"
	"github.com/arcnft/marketplace-sync/internal/messaging"
	"github.com/arcnft/marketplace-sync/internal/store"
	"github.com/arcnft/marketplace-sync/internal/watcher"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadWatcherConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "watcher",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting transfer event watcher")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}

	if err := store.Migrate(db); err != nil {
		logger.FatalCtx(ctx, "Failed to run migrations", zap.Error(err))
	}

	dataStore := store.NewPGStore(db)

	// Connect to the Ethereum node over websocket for log subscriptions
	eth, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.WebSocketURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Ethereum node", zap.Error(err), zap.String("url", cfg.Ethereum.WebSocketURL))
	}
	defer eth.Close()
	logger.InfoCtx(ctx, "Connected to Ethereum node", zap.String("url", cfg.Ethereum.WebSocketURL))

	// Repair events go to JetStream for the reconciler
	publisher, err := messaging.NewJetStreamPublisher(messaging.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
	}, adapter.NewNatsJetStream())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()

	w := watcher.NewWatcher(eth, dataStore, publisher, adapter.NewClock(), watcher.Config{
		ContractAddress: common.HexToAddress(cfg.Ethereum.ContractAddress),
		ChainKey:        fmt.Sprintf("eip155:%d", cfg.Ethereum.ChainID),
		StartBlock:      cfg.Ethereum.StartBlock,
	})

	stop, err := w.Start(ctx)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to start watcher", zap.Error(err))
	}

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))

	stop()
	cancel()

	logger.Info("Watcher stopped")
}
