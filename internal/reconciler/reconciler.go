package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/arcnft/marketplace-sync/internal/adapter"
	"github.com/arcnft/marketplace-sync/internal/chain"
	"github.com/arcnft/marketplace-sync/internal/domain"
	"github.com/arcnft/marketplace-sync/internal/logger"
	"github.com/arcnft/marketplace-sync/internal/messaging"
	"github.com/arcnft/marketplace-sync/internal/store"
	"github.com/arcnft/marketplace-sync/internal/store/schema"
)

// Config holds the reconciler configuration
type Config struct {
	SweepInterval  time.Duration // Time to sleep between sweep cycles
	BatchSize      int           // Tokens to verify per cycle
	WorkerPoolSize int           // Concurrent ownership checks
	StaleAfter     time.Duration // Only verify tokens untouched for this long

	URL            string // NATS URL
	StreamName     string
	ConsumerName   string
	ConnectionName string
	MaxReconnects  int
	ReconnectWait  time.Duration
	AckWaitTimeout time.Duration
	MaxDeliver     int
}

// Reconciler verifies indexed ownership against the chain and drains the
// repair queue the watcher and pipeline publish to
type Reconciler interface {
	// Run starts the sweep loop and the repair consumer, blocking until
	// the context is canceled or Stop is called
	Run(ctx context.Context) error
	// Stop requests a graceful shutdown
	Stop(ctx context.Context) error
	// Close releases the NATS connection
	Close()
}

type reconciler struct {
	config      Config
	store       store.Store
	chainClient chain.Client
	nc          adapter.NatsConn
	js          adapter.JetStream
	clock       adapter.Clock

	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewReconciler creates a reconciler and connects it to NATS
func NewReconciler(cfg Config, st store.Store, ch chain.Client, natsJS adapter.NatsJetStream, clock adapter.Clock) (Reconciler, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 8
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 10 * time.Minute
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = time.Hour
	}
	if cfg.ConsumerName == "" {
		cfg.ConsumerName = "nft-repair"
	}
	if cfg.AckWaitTimeout <= 0 {
		cfg.AckWaitTimeout = 30 * time.Second
	}
	if cfg.MaxDeliver <= 0 {
		cfg.MaxDeliver = 5
	}

	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(errors.New("disconnected from NATS"), zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &reconciler{
		config:      cfg,
		store:       st,
		chainClient: ch,
		nc:          nc,
		js:          js,
		clock:       clock,
		stopChan:    make(chan struct{}),
		stoppedCh:   make(chan struct{}),
	}, nil
}

// Close releases the NATS connection
func (r *reconciler) Close() {
	if r.nc != nil {
		r.nc.Close()
	}
}

func (r *reconciler) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return fmt.Errorf("reconciler already running")
	}
	defer func() {
		r.running.Store(false)
		close(r.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting reconciler",
		zap.Int("batch_size", r.config.BatchSize),
		zap.Int("worker_pool_size", r.config.WorkerPoolSize),
		zap.Duration("sweep_interval", r.config.SweepInterval))

	consumeCtx, err := r.startRepairConsumer(ctx)
	if err != nil {
		return err
	}
	defer consumeCtx.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Reconciler stopping", zap.Error(ctx.Err()))
			return nil
		case <-r.stopChan:
			logger.InfoCtx(ctx, "Reconciler stop requested")
			return nil
		default:
			if err := r.runSweepCycle(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.ErrorCtx(ctx, errors.New("sweep cycle failed"), zap.Error(err))
				}
			}
		}
	}
}

func (r *reconciler) Stop(ctx context.Context) error {
	if !r.running.CompareAndSwap(true, false) {
		return nil
	}

	close(r.stopChan)

	select {
	case <-r.stoppedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runSweepCycle verifies one batch of stale tokens against the chain
func (r *reconciler) runSweepCycle(ctx context.Context) error {
	startTime := r.clock.Now()

	nfts, err := r.store.GetNFTsForReconciliation(ctx, r.config.StaleAfter, r.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get nfts for reconciliation: %w", err)
	}

	if len(nfts) == 0 {
		if !r.sleep(ctx, r.config.SweepInterval) {
			return ctx.Err()
		}
		return nil
	}

	logger.InfoCtx(ctx, "Verifying token ownership", zap.Int("count", len(nfts)))

	var repaired, verified, failed atomic.Int32

	pool := pond.NewPool(
		r.config.WorkerPoolSize,
		pond.WithQueueSize(r.config.BatchSize),
		pond.WithContext(ctx),
	)
	for _, nft := range nfts {
		pool.Submit(func() {
			switch r.reconcileToken(ctx, nft) {
			case outcomeRepaired:
				repaired.Add(1)
			case outcomeVerified:
				verified.Add(1)
			default:
				failed.Add(1)
			}
		})
	}
	pool.StopAndWait()

	logger.InfoCtx(ctx, "Sweep cycle completed",
		zap.Duration("duration", r.clock.Since(startTime)),
		zap.Int("total_checked", len(nfts)),
		zap.Int32("verified", verified.Load()),
		zap.Int32("repaired", repaired.Load()),
		zap.Int32("failed", failed.Load()))

	if !r.sleep(ctx, r.config.SweepInterval) {
		return ctx.Err()
	}

	return nil
}

// sleep waits for d, returning false if the wait was interrupted by the
// context or a stop request
func (r *reconciler) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-r.stopChan:
		return false
	case <-r.clock.After(d):
		return true
	}
}

type outcome int

const (
	outcomeFailed outcome = iota
	outcomeVerified
	outcomeRepaired
)

// reconcileToken checks a single token's owner on chain and repairs the
// index when it disagrees
func (r *reconciler) reconcileToken(ctx context.Context, nft *schema.NFT) outcome {
	tokenID, ok := new(big.Int).SetString(nft.TokenID, 10)
	if !ok {
		logger.WarnCtx(ctx, "skipping token with undecodable id", zap.String("tokenID", nft.TokenID))
		return outcomeFailed
	}

	chainOwner, err := r.chainClient.OwnerOf(ctx, tokenID)
	if err != nil {
		// ownerOf reverts once the token is burned
		if strings.Contains(err.Error(), "execution reverted") {
			if burnErr := r.store.MarkNFTBurned(ctx, nft.ContractAddress, nft.TokenID, r.clock.Now()); burnErr != nil {
				logger.ErrorCtx(ctx, errors.New("failed to mark nft burned"), zap.Error(burnErr), zap.String("tokenID", nft.TokenID))
				return outcomeFailed
			}
			logger.InfoCtx(ctx, "marked token burned during reconciliation",
				zap.String("contract", nft.ContractAddress), zap.String("tokenID", nft.TokenID))
			return outcomeRepaired
		}

		logger.WarnCtx(ctx, "ownership check failed, will retry next cycle",
			zap.Error(err), zap.String("tokenID", nft.TokenID))
		return outcomeFailed
	}

	if chainOwner == (common.Address{}) {
		if err := r.store.MarkNFTBurned(ctx, nft.ContractAddress, nft.TokenID, r.clock.Now()); err != nil {
			logger.ErrorCtx(ctx, errors.New("failed to mark nft burned"), zap.Error(err), zap.String("tokenID", nft.TokenID))
			return outcomeFailed
		}
		return outcomeRepaired
	}

	result := outcomeVerified
	transferredAt := nft.LastTransferAt
	if !strings.EqualFold(chainOwner.Hex(), nft.OwnerAddress) {
		logger.InfoCtx(ctx, "repairing stale owner",
			zap.String("contract", nft.ContractAddress),
			zap.String("tokenID", nft.TokenID),
			zap.String("indexed_owner", nft.OwnerAddress),
			zap.String("chain_owner", chainOwner.Hex()))
		transferredAt = r.clock.Now()
		result = outcomeRepaired
	}

	// Writing the chain owner back also refreshes updated_at, which takes
	// the token out of the stale window until the next interval
	if err := r.store.UpdateNFTOwner(ctx, nft.ContractAddress, nft.TokenID, chainOwner.Hex(), transferredAt); err != nil {
		logger.ErrorCtx(ctx, errors.New("failed to write reconciled owner"), zap.Error(err), zap.String("tokenID", nft.TokenID))
		return outcomeFailed
	}

	// An owner that drifted means the token changed hands, any listing the
	// previous owner left behind is void
	if result == outcomeRepaired {
		if err := r.store.DeactivateListings(ctx, nft.ContractAddress, nft.TokenID); err != nil {
			logger.ErrorCtx(ctx, errors.New("failed to deactivate stale listings"), zap.Error(err), zap.String("tokenID", nft.TokenID))
			return outcomeFailed
		}
	}

	return result
}

// startRepairConsumer subscribes to the repair subject and verifies each
// requested token on demand
func (r *reconciler) startRepairConsumer(ctx context.Context) (adapter.ConsumeContext, error) {
	consumerConfig := jetstream.ConsumerConfig{
		Durable:       r.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       r.config.AckWaitTimeout,
		MaxDeliver:    r.config.MaxDeliver,
		FilterSubject: messaging.RepairSubject,
	}

	consumer, err := r.js.CreateOrUpdateConsumer(ctx, r.config.StreamName, consumerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumeCtx, err := consumer.Consume(func(msg adapter.Message) {
		r.handleRepairMessage(ctx, msg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming repairs: %w", err)
	}

	logger.InfoCtx(ctx, "Started repair consumer",
		zap.String("stream", r.config.StreamName),
		zap.String("consumer", r.config.ConsumerName))

	return consumeCtx, nil
}

func (r *reconciler) handleRepairMessage(ctx context.Context, msg adapter.Message) {
	var repair domain.RepairEvent
	if err := json.Unmarshal(msg.Data(), &repair); err != nil {
		logger.ErrorCtx(ctx, errors.New("failed to unmarshal repair event"), zap.Error(err))
		// Terminate, redelivery cannot make the payload parseable
		if err := msg.Term(); err != nil {
			logger.ErrorCtx(ctx, errors.New("failed to terminate message"), zap.Error(err))
		}
		return
	}

	logger.InfoCtx(ctx, "Received repair request",
		zap.String("id", repair.ID),
		zap.String("contract", repair.ContractAddress),
		zap.String("tokenID", repair.TokenID),
		zap.String("reason", repair.Reason))

	nft, err := r.store.GetNFT(ctx, repair.ContractAddress, repair.TokenID)
	if err != nil {
		if errors.Is(err, domain.ErrNFTNotFound) {
			// Token never made it into the index, create the row from chain
			// state so later transfers have something to land on
			if r.indexMissingToken(ctx, repair) {
				if err := msg.Ack(); err != nil {
					logger.ErrorCtx(ctx, errors.New("failed to ACK message"), zap.Error(err))
				}
			} else if err := msg.Nak(); err != nil {
				logger.ErrorCtx(ctx, errors.New("failed to NAK message"), zap.Error(err))
			}
			return
		}
		if err := msg.Nak(); err != nil {
			logger.ErrorCtx(ctx, errors.New("failed to NAK message"), zap.Error(err))
		}
		return
	}

	if r.reconcileToken(ctx, nft) == outcomeFailed {
		if err := msg.Nak(); err != nil {
			logger.ErrorCtx(ctx, errors.New("failed to NAK message"), zap.Error(err))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, errors.New("failed to ACK message"), zap.Error(err))
	}
}

// indexMissingToken backfills an index row for a token the index has never
// seen, taking the owner from the chain. Metadata stays empty until a later
// index write fills it. Returns false when the repair should be redelivered.
func (r *reconciler) indexMissingToken(ctx context.Context, repair domain.RepairEvent) bool {
	tokenID, ok := new(big.Int).SetString(repair.TokenID, 10)
	if !ok {
		logger.WarnCtx(ctx, "dropping repair with undecodable token id",
			zap.String("tokenID", repair.TokenID))
		return true
	}

	owner, err := r.chainClient.OwnerOf(ctx, tokenID)
	if err != nil {
		if strings.Contains(err.Error(), "execution reverted") {
			// The token does not exist on chain, nothing to index
			logger.InfoCtx(ctx, "repair target does not exist on chain",
				zap.String("contract", repair.ContractAddress),
				zap.String("tokenID", repair.TokenID))
			return true
		}

		logger.WarnCtx(ctx, "ownership read failed, repair will be redelivered",
			zap.Error(err), zap.String("tokenID", repair.TokenID))
		return false
	}

	_, err = r.store.UpsertNFT(ctx, store.UpsertNFTInput{
		ContractAddress: repair.ContractAddress,
		TokenID:         repair.TokenID,
		OwnerAddress:    owner.Hex(),
		LastTransferAt:  r.clock.Now(),
	})
	if err != nil {
		logger.ErrorCtx(ctx, errors.New("failed to backfill missing index row"),
			zap.Error(err), zap.String("tokenID", repair.TokenID))
		return false
	}

	logger.InfoCtx(ctx, "backfilled missing index row from chain state",
		zap.String("contract", repair.ContractAddress),
		zap.String("tokenID", repair.TokenID),
		zap.String("owner", owner.Hex()))
	return true
}
