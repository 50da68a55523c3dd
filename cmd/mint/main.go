package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/arcnft/marketplace-sync/internal/adapter"
	"github.com/arcnft/marketplace-sync/internal/chain"
	"github.com/arcnft/marketplace-sync/internal/config"
	"github.com/arcnft/marketplace-sync/internal/content"
	"github.com/arcnft/marketplace-sync/internal/domain"
	"github.com/arcnft/marketplace-sync/internal/logger"
	"github.com/arcnft/marketplace-sync/internal/messaging"
	"github.com/arcnft/marketplace-sync/internal/pipeline"
	"github.com/arcnft/marketplace-sync/internal/store"
)

var (
	configFile  = flag.String("config", "", "Path to configuration file")
	envPath     = flag.String("env", "config/", "Path to environment files")
	name        = flag.String("name", "", "Token name")
	description = flag.String("description", "", "Token description")
	imagePath   = flag.String("image", "", "Path to the image file")
	price       = flag.String("price", "", "Listing price in ETH, empty to mint without listing")
	royalty     = flag.Int64("royalty", 0, "Royalty in basis points (max 1000)")
	buyToken    = flag.String("buy", "", "Token ID to buy instead of minting")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadMintConfig(*configFile, *envPath)
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
			"service": "mint",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	if *buyToken == "" && (*imagePath == "" || *name == "") {
		logger.Fatal("both -image and -name are required")
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	if err := store.Migrate(db); err != nil {
		logger.FatalCtx(ctx, "Failed to run migrations", zap.Error(err))
	}

	dataStore := store.NewPGStore(db)

	// Connect to the Ethereum node with the minting key
	eth, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Ethereum node", zap.Error(err), zap.String("url", cfg.Ethereum.RPCURL))
	}
	defer eth.Close()

	signer, err := adapter.NewKeySigner(cfg.Ethereum.PrivateKey)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load signing key", zap.Error(err))
	}

	contractAddress := common.HexToAddress(cfg.Ethereum.ContractAddress)
	chainClient := chain.NewClient(contractAddress, big.NewInt(cfg.Ethereum.ChainID), eth, signer)

	if *buyToken != "" {
		buy(ctx, dataStore, chainClient, signer.Address(), contractAddress, cfg.Ethereum.ReceiptTimeout, *buyToken)
		return
	}

	image, err := os.ReadFile(*imagePath)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to read image file", zap.Error(err), zap.String("path", *imagePath))
	}

	// Pinning service client
	httpClient := adapter.NewHTTPClient(cfg.ContentStore.UploadTimeout)
	contentClient := content.NewClient(httpClient, &content.Config{
		APIURL:       cfg.ContentStore.APIURL,
		APIKey:       cfg.ContentStore.APIKey,
		APISecret:    cfg.ContentStore.APISecret,
		MaxAssetSize: cfg.ContentStore.MaxAssetSize,
	})

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

	p := pipeline.NewPipeline(contentClient, chainClient, dataStore, publisher, adapter.NewClock(), pipeline.Config{
		Marketplace:    contractAddress,
		ReceiptTimeout: cfg.Ethereum.ReceiptTimeout,
	})

	intent := domain.MintIntent{
		CreatorAddress:    signer.Address().Hex(),
		Name:              *name,
		Description:       *description,
		Price:             *price,
		RoyaltyBasisPoint: *royalty,
	}

	result, err := p.Run(ctx, intent, image, "")
	if err != nil {
		logger.FatalCtx(ctx, "Creation pipeline failed", zap.Error(err))
	}

	logger.InfoCtx(ctx, "Creation pipeline finished",
		zap.String("runID", result.RunID),
		zap.String("tokenID", result.TokenID),
		zap.String("metadataURI", result.MetadataURI),
		zap.String("mintTx", result.MintTxHash),
		zap.Bool("listed", result.Listed))

	fmt.Printf("minted token %s (tx %s)\n", result.TokenID, result.MintTxHash)
	if result.Listed {
		fmt.Printf("listed for %s ETH (tx %s)\n", *price, result.ListTxHash)
	}
}

// buy purchases an actively listed token and records the settlement so
// the index reflects the sale without waiting for the watcher
func buy(ctx context.Context, dataStore store.Store, chainClient chain.Client, buyer common.Address, contract common.Address, receiptTimeout time.Duration, tokenIDStr string) {
	tokenID, ok := new(big.Int).SetString(tokenIDStr, 10)
	if !ok {
		logger.Fatal("-buy must be a decimal token ID")
	}

	listing, err := dataStore.GetActiveListing(ctx, contract.Hex(), tokenIDStr)
	if err != nil {
		logger.FatalCtx(ctx, "No active listing for token", zap.Error(err), zap.String("tokenID", tokenIDStr))
	}

	priceWei, ok := new(big.Int).SetString(listing.PriceWei, 10)
	if !ok {
		logger.FatalCtx(ctx, "Listing price is not a valid integer", zap.String("priceWei", listing.PriceWei))
	}

	txHash, err := chainClient.SubmitBuyItem(ctx, contract, tokenID, priceWei)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to submit purchase", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Purchase submitted", zap.String("tx", txHash.Hex()))

	receipt, err := chainClient.WaitForReceipt(ctx, txHash, receiptTimeout)
	if err != nil {
		logger.FatalCtx(ctx, "Purchase did not settle", zap.Error(err), zap.String("tx", txHash.Hex()))
	}

	err = dataStore.RecordSale(ctx, store.RecordSaleInput{
		ContractAddress: contract.Hex(),
		TokenID:         tokenIDStr,
		SellerAddress:   listing.SellerAddress,
		BuyerAddress:    buyer.Hex(),
		PriceWei:        priceWei.String(),
		TxHash:          txHash.Hex(),
		LogIndex:        0,
		BlockNumber:     receipt.BlockNumber.Uint64(),
		SoldAt:          time.Now().UTC(),
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to record sale", zap.Error(err), zap.String("tx", txHash.Hex()))
	}

	fmt.Printf("bought token %s for %s wei (tx %s)\n", tokenIDStr, priceWei.String(), txHash.Hex())
}
