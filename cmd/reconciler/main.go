package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
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
	"github.com/arcnft/marketplace-sync/internal/chain"
	"github.com/arcnft/marketplace-sync/internal/config"
	"github.com/arcnft/marketplace-sync/internal/logger"
	"github.com/arcnft/marketplace-sync/internal/reconciler"
	"github.com/arcnft/marketplace-sync/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadReconcilerConfig(*configFile, *envPath)
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
			"service": "reconciler",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting ownership reconciler")

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

	// Connect to the Ethereum node. The reconciler only reads, so no
	// signer is attached.
	eth, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Ethereum node", zap.Error(err), zap.String("url", cfg.Ethereum.RPCURL))
	}
	defer eth.Close()

	chainClient := chain.NewClient(
		common.HexToAddress(cfg.Ethereum.ContractAddress),
		big.NewInt(cfg.Ethereum.ChainID),
		eth,
		nil,
	)

	rec, err := reconciler.NewReconciler(reconciler.Config{
		SweepInterval:  cfg.SweepInterval,
		BatchSize:      cfg.BatchSize,
		WorkerPoolSize: cfg.Worker.WorkerPoolSize,
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		ConnectionName: cfg.NATS.ConnectionName,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
	}, dataStore, chainClient, adapter.NewNatsJetStream(), adapter.NewClock())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create reconciler", zap.Error(err))
	}
	defer rec.Close()

	errCh := make(chan error, 1)
	go func() {
		if err := rec.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "reconciler"))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := rec.Stop(shutdownCtx); err != nil {
		logger.WarnCtx(shutdownCtx, "Reconciler did not stop cleanly", zap.Error(err))
	}
	cancel()

	logger.Info("Reconciler stopped")
}
