package store

import (
	"context"
	"time"

	"github.com/arcnft/marketplace-sync/internal/store/schema"
)

// UpsertNFTInput carries the fields written when a token is indexed
type UpsertNFTInput struct {
	ContractAddress   string
	TokenID           string
	Name              string
	Description       string
	ImageCID          string
	MetadataCID       string
	CreatorAddress    string
	OwnerAddress      string
	RoyaltyBasisPoint int64
	LastTransferAt    time.Time
}

// CreateListingInput carries the fields written when a listing settles
type CreateListingInput struct {
	ContractAddress string
	TokenID         string
	SellerAddress   string
	PriceWei        string
	TxHash          string
}

// RecordSaleInput carries the fields written when a purchase settles
type RecordSaleInput struct {
	ContractAddress string
	TokenID         string
	SellerAddress   string
	BuyerAddress    string
	PriceWei        string
	TxHash          string
	LogIndex        uint
	BlockNumber     uint64
	SoldAt          time.Time
}

// NFTQueryFilter filters and paginates index queries
type NFTQueryFilter struct {
	OwnerAddress   string
	CreatorAddress string
	ListedOnly     bool
	IncludeBurned  bool
	Offset         int
	Limit          int
}

// NFTWithListing bundles an index record with its active listing, if any
type NFTWithListing struct {
	NFT     *schema.NFT
	Listing *schema.Listing
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// UpsertNFT creates or updates an index record keyed by contract and token ID
	UpsertNFT(ctx context.Context, input UpsertNFTInput) (*schema.NFT, error)
	// GetNFT retrieves an index record by contract and token ID
	GetNFT(ctx context.Context, contractAddress string, tokenID string) (*schema.NFT, error)
	// GetNFTs retrieves index records with their active listings
	GetNFTs(ctx context.Context, filter NFTQueryFilter) ([]*NFTWithListing, uint64, error)
	// UpdateNFTOwner applies an ownership change observed on chain.
	// Writes carrying a transfer timestamp older than the stored one are dropped.
	UpdateNFTOwner(ctx context.Context, contractAddress string, tokenID string, ownerAddress string, transferredAt time.Time) error
	// MarkNFTBurned flags a token as destroyed
	MarkNFTBurned(ctx context.Context, contractAddress string, tokenID string, burnedAt time.Time) error
	// GetNFTsForReconciliation returns live tokens whose records have not been
	// verified against the chain for at least staleAfter, oldest first
	GetNFTsForReconciliation(ctx context.Context, staleAfter time.Duration, limit int) ([]*schema.NFT, error)

	// CreateListing records a settled listing, deactivating any previous active one
	CreateListing(ctx context.Context, input CreateListingInput) (*schema.Listing, error)
	// GetActiveListing returns the active listing for a token, or ErrListingNotFound
	GetActiveListing(ctx context.Context, contractAddress string, tokenID string) (*schema.Listing, error)
	// DeactivateListings deactivates all active listings for a token
	DeactivateListings(ctx context.Context, contractAddress string, tokenID string) error

	// RecordSale records a settled purchase, transfers ownership, and deactivates the listing
	RecordSale(ctx context.Context, input RecordSaleInput) error

	// GetProfile retrieves a wallet profile, or ErrProfileNotFound
	GetProfile(ctx context.Context, walletAddress string) (*schema.Profile, error)
	// UpsertProfile creates or updates a wallet profile
	UpsertProfile(ctx context.Context, profile schema.Profile) (*schema.Profile, error)

	// CreateTransaction records a submitted transaction
	CreateTransaction(ctx context.Context, transaction schema.Transaction) error
	// UpdateTransactionStatus updates a transaction record once its receipt is known
	UpdateTransactionStatus(ctx context.Context, txHash string, status string, blockNumber uint64, gasUsed uint64) error

	// GetBlockCursor retrieves the last processed block number for a chain
	GetBlockCursor(ctx context.Context, chain string) (uint64, error)
	// SetBlockCursor stores the last processed block number for a chain
	SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error
}
