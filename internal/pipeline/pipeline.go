package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arcnft/marketplace-sync/internal/adapter"
	"github.com/arcnft/marketplace-sync/internal/chain"
	"github.com/arcnft/marketplace-sync/internal/content"
	"github.com/arcnft/marketplace-sync/internal/domain"
	"github.com/arcnft/marketplace-sync/internal/logger"
	"github.com/arcnft/marketplace-sync/internal/messaging"
	"github.com/arcnft/marketplace-sync/internal/store"
	"github.com/arcnft/marketplace-sync/internal/store/schema"
	"github.com/arcnft/marketplace-sync/internal/uri"
)

// State is the creation pipeline state
type State string

const (
	StateForm      State = "form"
	StateUploading State = "uploading"
	StateMinting   State = "minting"
	StateApproving State = "approving"
	StateListing   State = "listing"
	StateSuccess   State = "success"
	StateError     State = "error"
)

// Step names the pipeline step that produced an error or transaction
type Step string

const (
	StepUpload  Step = "upload"
	StepMint    Step = "mint"
	StepApprove Step = "approve"
	StepList    Step = "list"
)

// StepError reports which step failed and the transaction involved, if any
type StepError struct {
	Step   Step
	TxHash string
	Err    error
}

func (e *StepError) Error() string {
	if e.TxHash != "" {
		return fmt.Sprintf("pipeline step %s failed (tx %s): %v", e.Step, e.TxHash, e.Err)
	}
	return fmt.Sprintf("pipeline step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a completed run
type Result struct {
	RunID         string
	TokenID       string
	ImageURI      string
	MetadataURI   string
	MintTxHash    string
	ApproveTxHash string
	ListTxHash    string
	Listed        bool
}

// Config holds pipeline configuration
type Config struct {
	// Marketplace is the address approved to transfer the token for listing
	Marketplace common.Address
	// ReceiptTimeout bounds each receipt wait
	ReceiptTimeout time.Duration
}

// event is one discrete input to the dispatcher loop
type event struct {
	kind    eventKind
	uri     string
	txHash  string
	tokenID *big.Int
	step    Step
	err     error
}

type eventKind int

const (
	evUploaded eventKind = iota
	evMinted
	evApproved
	evListed
	evFailed
)

// Pipeline runs the creation flow: upload, mint, and optionally approve and
// list. All state lives on the struct and is mutated only by the dispatcher
// loop, callers observe it through the accessor methods.
type Pipeline struct {
	contentClient content.Client
	chainClient   chain.Client
	store         store.Store
	publisher     messaging.Publisher
	clock         adapter.Clock
	config        Config

	mu     sync.Mutex
	state  State
	runID  string
	result Result
	runErr error

	// One-shot submission guards with the hashes they produced. Set once a
	// transaction reaches the mempool, they survive failed runs so a retry
	// can never double-submit. A retry picks the pending transaction back up
	// instead, only Restart clears them.
	mintSubmitted     bool
	mintTxHash        common.Hash
	approvalSubmitted bool
	approveTxHash     common.Hash
	listingSubmitted  bool
	listTxHash        common.Hash
}

// NewPipeline creates a creation pipeline
func NewPipeline(cc content.Client, ch chain.Client, st store.Store, pub messaging.Publisher, clock adapter.Clock, cfg Config) *Pipeline {
	if cfg.ReceiptTimeout == 0 {
		cfg.ReceiptTimeout = 2 * time.Minute
	}

	return &Pipeline{
		contentClient: cc,
		chainClient:   ch,
		store:         st,
		publisher:     pub,
		clock:         clock,
		config:        cfg,
		state:         StateForm,
	}
}

// State returns the current pipeline state
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Result returns a snapshot of the current run's outputs
func (p *Pipeline) Result() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

// Err returns the error that moved the pipeline to the error state, if any
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runErr
}

// Restart resets the pipeline to the form state and clears the one-shot
// submission guards. Only valid from a terminal state.
func (p *Pipeline) Restart() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateForm && p.state != StateSuccess && p.state != StateError {
		return fmt.Errorf("cannot restart pipeline in state %s", p.state)
	}

	p.state = StateForm
	p.runID = ""
	p.result = Result{}
	p.runErr = nil
	p.mintSubmitted = false
	p.mintTxHash = common.Hash{}
	p.approvalSubmitted = false
	p.approveTxHash = common.Hash{}
	p.listingSubmitted = false
	p.listTxHash = common.Hash{}

	return nil
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Run executes the pipeline for one mint intent and blocks until a terminal
// state. The image payload is pinned as-is, contentType may be empty.
func (p *Pipeline) Run(ctx context.Context, intent domain.MintIntent, image []byte, contentType string) (*Result, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.state != StateForm && p.state != StateError {
		state := p.state
		p.mu.Unlock()
		return nil, fmt.Errorf("pipeline busy in state %s", state)
	}
	if p.runID == "" {
		p.runID = ulid.Make().String()
		p.result = Result{RunID: p.runID}
	}
	runID := p.runID
	metadataURI := p.result.MetadataURI
	p.runErr = nil
	p.mu.Unlock()

	logger.InfoCtx(ctx, "starting creation pipeline",
		zap.String("runID", runID),
		zap.String("creator", intent.CreatorAddress),
		zap.Bool("list", intent.ShouldList()))

	events := make(chan event, 1)

	// A retry resumes past the upload when its outputs already exist, the
	// pinned content stays valid across attempts. The chain steps carry
	// their own resumption guards.
	if metadataURI != "" {
		p.setState(StateMinting)
		go p.mint(ctx, events, intent, metadataURI)
	} else {
		p.setState(StateUploading)
		go p.upload(ctx, events, intent, image, contentType)
	}

	// Dispatcher loop: every transition happens here, step goroutines only
	// emit events
	for {
		select {
		case <-ctx.Done():
			p.fail(ctx, &StepError{Step: p.currentStep(), Err: ctx.Err()})
			return nil, ctx.Err()

		case ev := <-events:
			switch ev.kind {
			case evUploaded:
				p.mu.Lock()
				p.result.MetadataURI = ev.uri
				p.mu.Unlock()

				p.setState(StateMinting)
				go p.mint(ctx, events, intent, ev.uri)

			case evMinted:
				p.mu.Lock()
				p.result.TokenID = ev.tokenID.String()
				p.result.MintTxHash = ev.txHash
				p.mu.Unlock()

				if !intent.ShouldList() {
					return p.succeed(ctx, intent)
				}

				p.setState(StateApproving)
				go p.approve(ctx, events, ev.tokenID)

			case evApproved:
				p.mu.Lock()
				p.result.ApproveTxHash = ev.txHash
				tokenID, _ := new(big.Int).SetString(p.result.TokenID, 10)
				p.mu.Unlock()

				p.setState(StateListing)
				go p.list(ctx, events, intent, tokenID)

			case evListed:
				p.mu.Lock()
				p.result.ListTxHash = ev.txHash
				p.result.Listed = true
				p.mu.Unlock()

				return p.succeed(ctx, intent)

			case evFailed:
				stepErr := &StepError{Step: ev.step, TxHash: ev.txHash, Err: ev.err}
				p.fail(ctx, stepErr)
				return nil, stepErr
			}
		}
	}
}

func (p *Pipeline) currentStep() Step {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateUploading:
		return StepUpload
	case StateMinting:
		return StepMint
	case StateApproving:
		return StepApprove
	default:
		return StepList
	}
}

func (p *Pipeline) fail(ctx context.Context, stepErr *StepError) {
	p.mu.Lock()
	p.state = StateError
	p.runErr = stepErr
	p.mu.Unlock()

	logger.ErrorCtx(ctx, errors.New("creation pipeline failed"),
		zap.String("runID", p.runID),
		zap.String("step", string(stepErr.Step)),
		zap.String("txHash", stepErr.TxHash),
		zap.Error(stepErr.Err))
}

func (p *Pipeline) succeed(ctx context.Context, intent domain.MintIntent) (*Result, error) {
	p.mu.Lock()
	p.state = StateSuccess
	result := p.result
	p.mu.Unlock()

	logger.InfoCtx(ctx, "creation pipeline succeeded",
		zap.String("runID", result.RunID),
		zap.String("tokenID", result.TokenID),
		zap.Bool("listed", result.Listed))

	// Index writes are best effort, the watcher and reconciler repair any
	// gap. The pipeline outcome never depends on them.
	go p.writeIndex(context.WithoutCancel(ctx), intent, result)

	return &result, nil
}

// upload pins the image and then the metadata document
func (p *Pipeline) upload(ctx context.Context, events chan<- event, intent domain.MintIntent, image []byte, contentType string) {
	p.mu.Lock()
	imageURI := p.result.ImageURI
	p.mu.Unlock()

	// A retry after a metadata failure keeps the already pinned image
	if imageURI == "" {
		uploaded, err := p.contentClient.UploadAsset(ctx, image, contentType, "")
		if err != nil {
			events <- event{kind: evFailed, step: StepUpload, err: err}
			return
		}
		imageURI = uploaded

		p.mu.Lock()
		p.result.ImageURI = imageURI
		p.mu.Unlock()
	}

	metadataURI, err := p.contentClient.UploadMetadata(ctx, content.TokenMetadata{
		Name:        intent.Name,
		Description: intent.Description,
		Image:       imageURI,
		Creator:     domain.NormalizeAddress(intent.CreatorAddress),
		RoyaltyBPS:  intent.RoyaltyBasisPoint,
	})
	if err != nil {
		events <- event{kind: evFailed, step: StepUpload, err: err}
		return
	}

	events <- event{kind: evUploaded, uri: metadataURI}
}

// mint submits the mint transaction, once, and decodes the token ID from
// its receipt. Mints carry payment, so a retry never submits a second one,
// it waits on the transaction the first attempt produced.
func (p *Pipeline) mint(ctx context.Context, events chan<- event, intent domain.MintIntent, metadataURI string) {
	p.mu.Lock()
	submitted := p.mintSubmitted
	txHash := p.mintTxHash
	tokenIDStr := p.result.TokenID
	p.mu.Unlock()

	if submitted {
		if tokenIDStr != "" {
			// Confirmed by an earlier attempt of this run
			tokenID, _ := new(big.Int).SetString(tokenIDStr, 10)
			events <- event{kind: evMinted, txHash: txHash.Hex(), tokenID: tokenID}
			return
		}
		logger.InfoCtx(ctx, "mint already submitted, waiting for existing transaction",
			zap.String("txHash", txHash.Hex()))
		p.awaitMint(ctx, events, txHash)
		return
	}

	// Advisory read: pay the mint price unless a free mint is available.
	// Whatever this says, the contract's revert is authoritative.
	value := big.NewInt(0)
	freeMints, err := p.chainClient.FreeMintCount(ctx, common.HexToAddress(intent.CreatorAddress))
	if err != nil || freeMints.Sign() == 0 {
		price, priceErr := p.chainClient.MintPrice(ctx)
		if priceErr != nil {
			events <- event{kind: evFailed, step: StepMint, err: priceErr}
			return
		}
		value = price
	}

	txHash, err = p.chainClient.SubmitMint(ctx, metadataURI, value)
	if err != nil {
		events <- event{kind: evFailed, step: StepMint, err: err}
		return
	}

	p.mu.Lock()
	p.mintSubmitted = true
	p.mintTxHash = txHash
	p.mu.Unlock()

	p.recordTransaction(ctx, domain.TransactionKindMint, txHash.Hex(), intent.CreatorAddress, "")
	p.awaitMint(ctx, events, txHash)
}

func (p *Pipeline) awaitMint(ctx context.Context, events chan<- event, txHash common.Hash) {
	receipt, err := p.chainClient.WaitForReceipt(ctx, txHash, p.config.ReceiptTimeout)
	if err != nil {
		p.settleTransaction(ctx, txHash.Hex(), receipt, err)
		events <- event{kind: evFailed, step: StepMint, txHash: txHash.Hex(), err: err}
		return
	}

	tokenID, err := p.chainClient.MintedTokenID(receipt)
	if err != nil {
		events <- event{kind: evFailed, step: StepMint, txHash: txHash.Hex(), err: err}
		return
	}

	p.settleTransaction(ctx, txHash.Hex(), receipt, nil)
	events <- event{kind: evMinted, txHash: txHash.Hex(), tokenID: tokenID}
}

// approve submits the marketplace approval, once
func (p *Pipeline) approve(ctx context.Context, events chan<- event, tokenID *big.Int) {
	p.mu.Lock()
	submitted := p.approvalSubmitted
	txHash := p.approveTxHash
	confirmed := p.result.ApproveTxHash != ""
	p.mu.Unlock()

	if submitted {
		if confirmed {
			events <- event{kind: evApproved, txHash: txHash.Hex()}
			return
		}
		// Submitted by an earlier attempt of this run, wait instead of
		// submitting twice
		logger.InfoCtx(ctx, "approval already submitted, waiting for existing transaction",
			zap.String("tokenID", tokenID.String()),
			zap.String("txHash", txHash.Hex()))
		p.awaitApprove(ctx, events, txHash)
		return
	}

	txHash, err := p.chainClient.SubmitApprove(ctx, p.config.Marketplace, tokenID)
	if err != nil {
		events <- event{kind: evFailed, step: StepApprove, err: err}
		return
	}

	p.mu.Lock()
	p.approvalSubmitted = true
	p.approveTxHash = txHash
	p.mu.Unlock()

	p.recordTransaction(ctx, domain.TransactionKindApprove, txHash.Hex(), p.chainClient.SignerAddress().Hex(), tokenID.String())
	p.awaitApprove(ctx, events, txHash)
}

func (p *Pipeline) awaitApprove(ctx context.Context, events chan<- event, txHash common.Hash) {
	receipt, err := p.chainClient.WaitForReceipt(ctx, txHash, p.config.ReceiptTimeout)
	if err != nil {
		p.settleTransaction(ctx, txHash.Hex(), receipt, err)
		events <- event{kind: evFailed, step: StepApprove, txHash: txHash.Hex(), err: err}
		return
	}

	p.settleTransaction(ctx, txHash.Hex(), receipt, nil)
	events <- event{kind: evApproved, txHash: txHash.Hex()}
}

// list submits the listing, once
func (p *Pipeline) list(ctx context.Context, events chan<- event, intent domain.MintIntent, tokenID *big.Int) {
	p.mu.Lock()
	submitted := p.listingSubmitted
	txHash := p.listTxHash
	p.mu.Unlock()

	if submitted {
		logger.InfoCtx(ctx, "listing already submitted, waiting for existing transaction",
			zap.String("tokenID", tokenID.String()),
			zap.String("txHash", txHash.Hex()))
		p.awaitList(ctx, events, txHash)
		return
	}

	priceWei, err := PriceToWei(intent.Price)
	if err != nil {
		events <- event{kind: evFailed, step: StepList, err: err}
		return
	}

	txHash, err = p.chainClient.SubmitListItem(ctx, p.chainClient.ContractAddress(), tokenID, priceWei)
	if err != nil {
		events <- event{kind: evFailed, step: StepList, err: err}
		return
	}

	p.mu.Lock()
	p.listingSubmitted = true
	p.listTxHash = txHash
	p.mu.Unlock()

	p.recordTransaction(ctx, domain.TransactionKindList, txHash.Hex(), p.chainClient.SignerAddress().Hex(), tokenID.String())
	p.awaitList(ctx, events, txHash)
}

func (p *Pipeline) awaitList(ctx context.Context, events chan<- event, txHash common.Hash) {
	receipt, err := p.chainClient.WaitForReceipt(ctx, txHash, p.config.ReceiptTimeout)
	if err != nil {
		p.settleTransaction(ctx, txHash.Hex(), receipt, err)
		events <- event{kind: evFailed, step: StepList, txHash: txHash.Hex(), err: err}
		return
	}

	p.settleTransaction(ctx, txHash.Hex(), receipt, nil)
	events <- event{kind: evListed, txHash: txHash.Hex()}
}

// recordTransaction stores a pending transaction record, best effort
func (p *Pipeline) recordTransaction(ctx context.Context, kind domain.TransactionKind, txHash string, wallet string, tokenID string) {
	err := p.store.CreateTransaction(ctx, schema.Transaction{
		RunID:           p.runID,
		Kind:            string(kind),
		Status:          string(domain.TransactionStatusPending),
		TxHash:          txHash,
		ContractAddress: p.chainClient.ContractAddress().Hex(),
		TokenID:         tokenID,
		WalletAddress:   domain.CacheKeyAddress(wallet),
	})
	if err != nil {
		logger.WarnCtx(ctx, "failed to record transaction", zap.Error(err), zap.String("txHash", txHash))
	}
}

// settleTransaction updates a transaction record from its receipt, best effort
func (p *Pipeline) settleTransaction(ctx context.Context, txHash string, receipt *types.Receipt, waitErr error) {
	status := string(domain.TransactionStatusConfirmed)
	if waitErr != nil {
		if errors.Is(waitErr, domain.ErrTransactionReverted) {
			status = string(domain.TransactionStatusReverted)
		} else {
			// Timed out or transport failure, the record stays pending
			return
		}
	}

	var blockNumber, gasUsed uint64
	if receipt != nil {
		if receipt.BlockNumber != nil {
			blockNumber = receipt.BlockNumber.Uint64()
		}
		gasUsed = receipt.GasUsed
	}

	if err := p.store.UpdateTransactionStatus(ctx, txHash, status, blockNumber, gasUsed); err != nil {
		logger.WarnCtx(ctx, "failed to settle transaction record", zap.Error(err), zap.String("txHash", txHash))
	}
}

// writeIndex pushes the run outcome into the index, best effort
func (p *Pipeline) writeIndex(ctx context.Context, intent domain.MintIntent, result Result) {
	imageCID, _, err := uri.ExtractCID(result.ImageURI)
	if err != nil {
		logger.WarnCtx(ctx, "cannot index run with malformed image uri", zap.Error(err))
		imageCID = ""
	}
	metadataCID, _, err := uri.ExtractCID(result.MetadataURI)
	if err != nil {
		metadataCID = ""
	}

	_, err = p.store.UpsertNFT(ctx, store.UpsertNFTInput{
		ContractAddress:   p.chainClient.ContractAddress().Hex(),
		TokenID:           result.TokenID,
		Name:              intent.Name,
		Description:       intent.Description,
		ImageCID:          imageCID,
		MetadataCID:       metadataCID,
		CreatorAddress:    intent.CreatorAddress,
		OwnerAddress:      intent.CreatorAddress,
		RoyaltyBasisPoint: intent.RoyaltyBasisPoint,
		LastTransferAt:    p.clock.Now(),
	})
	if err != nil {
		logger.WarnCtx(ctx, "index write failed, queueing repair", zap.Error(err), zap.String("tokenID", result.TokenID))

		repair := domain.NewRepairEvent(p.chainClient.ContractAddress().Hex(), result.TokenID,
			fmt.Sprintf("pipeline index write failed: %v", err), p.clock.Now())
		if pubErr := p.publisher.PublishRepair(ctx, repair); pubErr != nil {
			logger.ErrorCtx(ctx, errors.New("failed to publish repair event"), zap.Error(pubErr))
		}
		return
	}

	if !result.Listed {
		return
	}

	priceWei, err := PriceToWei(intent.Price)
	if err != nil {
		return
	}

	_, err = p.store.CreateListing(ctx, store.CreateListingInput{
		ContractAddress: p.chainClient.ContractAddress().Hex(),
		TokenID:         result.TokenID,
		SellerAddress:   intent.CreatorAddress,
		PriceWei:        priceWei.String(),
		TxHash:          result.ListTxHash,
	})
	if err != nil {
		logger.WarnCtx(ctx, "listing index write failed", zap.Error(err), zap.String("tokenID", result.TokenID))
	}
}

// PriceToWei converts a decimal ETH amount to wei
func PriceToWei(price string) (*big.Int, error) {
	d, err := domain.ParsePrice(price)
	if err != nil {
		return nil, err
	}

	wei := d.Mul(decimal.New(1, 18))
	if !wei.IsInteger() {
		wei = wei.Floor()
	}

	return wei.BigInt(), nil
}
