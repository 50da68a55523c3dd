package watcher

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/arcnft/marketplace-sync/internal/adapter"
	"github.com/arcnft/marketplace-sync/internal/chain"
	"github.com/arcnft/marketplace-sync/internal/domain"
	"github.com/arcnft/marketplace-sync/internal/logger"
	"github.com/arcnft/marketplace-sync/internal/messaging"
	"github.com/arcnft/marketplace-sync/internal/store"
)

// Config holds the configuration for the event watcher
type Config struct {
	// ContractAddress is the collection contract to watch
	ContractAddress common.Address
	// ChainKey names the block cursor row (e.g. "eip155:1")
	ChainKey string
	// StartBlock overrides the stored cursor when non-zero
	StartBlock uint64
	// CursorSaveFreq saves the cursor every N blocks
	CursorSaveFreq uint64
	// CursorSaveDelay saves the cursor at least every N seconds
	CursorSaveDelay time.Duration
}

// Watcher keeps the index consistent with on-chain Transfer events
//
//go:generate mockgen -source=watcher.go -destination=../mocks/watcher.go -package=mocks -mock_names=Watcher=MockWatcher
type Watcher interface {
	// Start begins watching and returns a stop function. A watcher holds at
	// most one subscription, calling Start again while running is a no-op
	// that hands back the active subscription's stop function.
	Start(ctx context.Context) (func(), error)
	// Running reports whether a subscription is active
	Running() bool
	// Close closes the underlying connection
	Close()
}

type watcher struct {
	eth       adapter.EthClient
	store     store.Store
	publisher messaging.Publisher
	clock     adapter.Clock
	config    Config

	mu      sync.Mutex
	running atomic.Bool
	stopFn  func()
	wg      sync.WaitGroup

	lastSavedBlock uint64
	lastSaveTime   time.Time
}

// NewWatcher creates a transfer event watcher
func NewWatcher(eth adapter.EthClient, st store.Store, pub messaging.Publisher, clock adapter.Clock, cfg Config) Watcher {
	if cfg.CursorSaveFreq == 0 {
		cfg.CursorSaveFreq = 10
	}
	if cfg.CursorSaveDelay == 0 {
		cfg.CursorSaveDelay = 30 * time.Second
	}

	return &watcher{
		eth:       eth,
		store:     st,
		publisher: pub,
		clock:     clock,
		config:    cfg,
	}
}

// Start begins watching and returns a stop function
func (w *watcher) Start(ctx context.Context) (func(), error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running.CompareAndSwap(false, true) {
		// A subscription is already live, reuse it
		logger.Info("watcher already running",
			zap.String("contract", w.config.ContractAddress.Hex()))
		return w.stopFn, nil
	}

	runCtx, cancel := context.WithCancel(ctx)

	startBlock, err := w.resolveStartBlock(runCtx)
	if err != nil {
		cancel()
		w.running.Store(false)
		return nil, err
	}

	w.lastSaveTime = w.clock.Now()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.running.Store(false)

		if err := w.run(runCtx, startBlock); err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(runCtx, errors.New("watcher stopped"), zap.Error(err))
		}
	}()

	stop := func() {
		cancel()
		w.wg.Wait()
	}
	w.stopFn = stop

	return stop, nil
}

// Running reports whether a subscription is active
func (w *watcher) Running() bool {
	return w.running.Load()
}

// resolveStartBlock picks the block to resume from: explicit config, then
// the stored cursor, then the chain head
func (w *watcher) resolveStartBlock(ctx context.Context) (uint64, error) {
	if w.config.StartBlock > 0 {
		logger.Info("starting from configured block",
			zap.String("chain", w.config.ChainKey),
			zap.Uint64("block", w.config.StartBlock))
		return w.config.StartBlock, nil
	}

	lastBlock, err := w.store.GetBlockCursor(ctx, w.config.ChainKey)
	if err != nil {
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}
	if lastBlock > 0 {
		logger.Info("resuming from last processed block",
			zap.String("chain", w.config.ChainKey),
			zap.Uint64("block", lastBlock+1))
		return lastBlock + 1, nil
	}

	header, err := w.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}

	latest := header.Number.Uint64()
	logger.Info("starting from latest block",
		zap.String("chain", w.config.ChainKey),
		zap.Uint64("block", latest))
	return latest, nil
}

func (w *watcher) filterQuery(fromBlock *big.Int, toBlock *big.Int) ethereum.FilterQuery {
	return ethereum.FilterQuery{
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Addresses: []common.Address{w.config.ContractAddress},
		Topics: [][]common.Hash{
			{chain.TransferEventSignature},
		},
	}
}

// run catches up missed blocks, then holds a live subscription
func (w *watcher) run(ctx context.Context, fromBlock uint64) error {
	header, err := w.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to get latest block: %w", err)
	}
	head := header.Number.Uint64()

	// Catch up blocks missed while the watcher was down
	if fromBlock <= head {
		logs, err := w.eth.FilterLogs(ctx, w.filterQuery(
			new(big.Int).SetUint64(fromBlock),
			new(big.Int).SetUint64(head)))
		if err != nil {
			return fmt.Errorf("failed to backfill logs: %w", err)
		}

		logger.InfoCtx(ctx, "backfilling transfer logs",
			zap.Uint64("fromBlock", fromBlock),
			zap.Uint64("toBlock", head),
			zap.Int("logs", len(logs)))

		for _, vLog := range logs {
			w.handleLog(ctx, vLog)
		}

		w.saveCursor(ctx, head, true)
	}

	// Live subscription from the head onward
	logs := make(chan types.Log)
	sub, err := w.eth.SubscribeFilterLogs(ctx, w.filterQuery(new(big.Int).SetUint64(head+1), nil), logs)
	if err != nil {
		return fmt.Errorf("failed to subscribe to filter logs: %w", err)
	}
	defer sub.Unsubscribe()

	logger.InfoCtx(ctx, "watching transfer events",
		zap.String("contract", w.config.ContractAddress.Hex()),
		zap.Uint64("fromBlock", head+1))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("subscription error: %w", err)
		case vLog := <-logs:
			w.handleLog(ctx, vLog)
			w.saveCursor(ctx, vLog.BlockNumber, false)
		}
	}
}

// handleLog applies one Transfer log to the index. Failures are logged and
// queued for repair, they never stop the stream.
func (w *watcher) handleLog(ctx context.Context, vLog types.Log) {
	event, err := w.parseTransfer(ctx, vLog)
	if err != nil {
		logger.WarnCtx(ctx, "skipping unparseable log",
			zap.Error(err),
			zap.String("txHash", vLog.TxHash.Hex()))
		return
	}
	if event == nil {
		return
	}

	if err := w.applyTransfer(ctx, event); err != nil {
		logger.ErrorCtx(ctx, errors.New("failed to apply transfer, queueing repair"),
			zap.Error(err),
			zap.String("txHash", event.TxHash),
			zap.String("tokenID", event.TokenID))

		repair := domain.NewRepairEvent(event.ContractAddress, event.TokenID,
			fmt.Sprintf("transfer apply failed: %v", err), w.clock.Now())
		if pubErr := w.publisher.PublishRepair(ctx, repair); pubErr != nil {
			logger.ErrorCtx(ctx, errors.New("failed to publish repair event"), zap.Error(pubErr))
		}
	}
}

// parseTransfer decodes an ERC721 Transfer log into a domain event.
// ERC20 transfers share the signature but carry 3 topics, skip those.
func (w *watcher) parseTransfer(ctx context.Context, vLog types.Log) (*domain.TransferEvent, error) {
	if len(vLog.Topics) != 4 {
		return nil, nil
	}

	header, err := w.eth.HeaderByNumber(ctx, new(big.Int).SetUint64(vLog.BlockNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to get block header: %w", err)
	}

	return &domain.TransferEvent{
		ContractAddress: vLog.Address.Hex(),
		TokenID:         new(big.Int).SetBytes(vLog.Topics[3].Bytes()).String(),
		FromAddress:     common.BytesToAddress(vLog.Topics[1].Bytes()).Hex(),
		ToAddress:       common.BytesToAddress(vLog.Topics[2].Bytes()).Hex(),
		TxHash:          vLog.TxHash.Hex(),
		BlockNumber:     vLog.BlockNumber,
		LogIndex:        vLog.Index,
		Timestamp:       time.Unix(int64(header.Time), 0).UTC(), //nolint:gosec,G115 // header.Time is a uint64 from geth which is safe to cast
	}, nil
}

// applyTransfer updates the index for one transfer event
func (w *watcher) applyTransfer(ctx context.Context, event *domain.TransferEvent) error {
	switch event.EventType() {
	case domain.EventTypeMint:
		// Mints are indexed by the creation pipeline, which knows metadata
		// the log does not carry
		logger.DebugCtx(ctx, "skipping mint transfer",
			zap.String("tokenID", event.TokenID),
			zap.String("txHash", event.TxHash))
		return nil

	case domain.EventTypeBurn:
		err := w.store.MarkNFTBurned(ctx, event.ContractAddress, event.TokenID, event.Timestamp)
		if err != nil && !errors.Is(err, domain.ErrNFTNotFound) {
			return err
		}
		return nil

	default:
		err := w.store.UpdateNFTOwner(ctx, event.ContractAddress, event.TokenID, event.ToAddress, event.Timestamp)
		if err != nil {
			return err
		}

		// The seller's listing does not bind the new owner, whether the
		// transfer was a marketplace purchase or a plain wallet move
		return w.store.DeactivateListings(ctx, event.ContractAddress, event.TokenID)
	}
}

// saveCursor persists the cursor every N blocks or N seconds
func (w *watcher) saveCursor(ctx context.Context, blockNumber uint64, force bool) {
	shouldSave := force ||
		blockNumber-w.lastSavedBlock >= w.config.CursorSaveFreq ||
		w.clock.Since(w.lastSaveTime) >= w.config.CursorSaveDelay

	if !shouldSave {
		return
	}

	if err := w.store.SetBlockCursor(ctx, w.config.ChainKey, blockNumber); err != nil {
		logger.WarnCtx(ctx, "failed to save block cursor", zap.Error(err), zap.Uint64("block", blockNumber))
		return
	}

	w.lastSavedBlock = blockNumber
	w.lastSaveTime = w.clock.Now()
}

// Close closes the underlying connection
func (w *watcher) Close() {
	w.eth.Close()
}
