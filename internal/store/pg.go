package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arcnft/marketplace-sync/internal/domain"
	"github.com/arcnft/marketplace-sync/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the database schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.NFT{},
		&schema.Listing{},
		&schema.Sale{},
		&schema.Profile{},
		&schema.Transaction{},
		&schema.SyncState{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// UpsertNFT creates or updates an index record keyed by contract and token ID
func (s *pgStore) UpsertNFT(ctx context.Context, input UpsertNFTInput) (*schema.NFT, error) {
	nft := schema.NFT{
		ContractAddress:   domain.NormalizeAddress(input.ContractAddress),
		TokenID:           input.TokenID,
		Name:              input.Name,
		Description:       input.Description,
		ImageCID:          input.ImageCID,
		MetadataCID:       input.MetadataCID,
		CreatorAddress:    domain.NormalizeAddress(input.CreatorAddress),
		OwnerAddress:      domain.NormalizeAddress(input.OwnerAddress),
		RoyaltyBasisPoint: input.RoyaltyBasisPoint,
		LastTransferAt:    input.LastTransferAt,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "contract_address"}, {Name: "token_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "image_cid", "metadata_cid",
			"creator_address", "owner_address", "royalty_basis_point",
			"last_transfer_at", "updated_at",
		}),
	}).Create(&nft).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert nft: %w", err)
	}

	// ON CONFLICT DO UPDATE does not populate the primary key, fetch the row
	if nft.ID == 0 {
		if err := s.db.WithContext(ctx).
			Where("contract_address = ? AND token_id = ?", nft.ContractAddress, nft.TokenID).
			First(&nft).Error; err != nil {
			return nil, fmt.Errorf("failed to get upserted nft: %w", err)
		}
	}

	return &nft, nil
}

// GetNFT retrieves an index record by contract and token ID
func (s *pgStore) GetNFT(ctx context.Context, contractAddress string, tokenID string) (*schema.NFT, error) {
	var nft schema.NFT
	err := s.db.WithContext(ctx).
		Where("contract_address = ? AND token_id = ?", domain.NormalizeAddress(contractAddress), tokenID).
		First(&nft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNFTNotFound
		}
		return nil, fmt.Errorf("failed to get nft: %w", err)
	}

	return &nft, nil
}

// GetNFTs retrieves index records with their active listings
func (s *pgStore) GetNFTs(ctx context.Context, filter NFTQueryFilter) ([]*NFTWithListing, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.NFT{})

	if !filter.IncludeBurned {
		query = query.Where("nfts.burned = ?", false)
	}
	if filter.OwnerAddress != "" {
		query = query.Where("nfts.owner_address = ?", domain.NormalizeAddress(filter.OwnerAddress))
	}
	if filter.CreatorAddress != "" {
		query = query.Where("nfts.creator_address = ?", domain.NormalizeAddress(filter.CreatorAddress))
	}
	if filter.ListedOnly {
		query = query.Joins("JOIN listings ON listings.nft_id = nfts.id AND listings.active = true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count nfts: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var nfts []*schema.NFT
	err := query.
		Order("nfts.last_transfer_at DESC, nfts.id DESC").
		Offset(filter.Offset).
		Limit(limit).
		Find(&nfts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get nfts: %w", err)
	}

	results := make([]*NFTWithListing, 0, len(nfts))
	for _, nft := range nfts {
		result := &NFTWithListing{NFT: nft}

		var listing schema.Listing
		err := s.db.WithContext(ctx).
			Where("nft_id = ? AND active = ?", nft.ID, true).
			Order("id DESC").
			First(&listing).Error
		if err == nil {
			result.Listing = &listing
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, fmt.Errorf("failed to get active listing: %w", err)
		}

		results = append(results, result)
	}

	return results, uint64(total), nil
}

// UpdateNFTOwner applies an ownership change observed on chain.
// Out-of-order events are dropped by comparing against the stored transfer
// time. A token the index has never seen returns ErrNFTNotFound so the
// caller can queue a repair instead of losing the transfer.
func (s *pgStore) UpdateNFTOwner(ctx context.Context, contractAddress string, tokenID string, ownerAddress string, transferredAt time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&schema.NFT{}).
		Where("contract_address = ? AND token_id = ? AND last_transfer_at <= ?",
			domain.NormalizeAddress(contractAddress), tokenID, transferredAt).
		Updates(map[string]interface{}{
			"owner_address":    domain.NormalizeAddress(ownerAddress),
			"last_transfer_at": transferredAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update nft owner: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		var count int64
		err := s.db.WithContext(ctx).
			Model(&schema.NFT{}).
			Where("contract_address = ? AND token_id = ?",
				domain.NormalizeAddress(contractAddress), tokenID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check nft existence: %w", err)
		}
		if count == 0 {
			return domain.ErrNFTNotFound
		}
		// The row exists but carries a newer transfer, the write was stale
	}

	return nil
}

// MarkNFTBurned flags a token as destroyed
func (s *pgStore) MarkNFTBurned(ctx context.Context, contractAddress string, tokenID string, burnedAt time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nft schema.NFT
		err := tx.Where("contract_address = ? AND token_id = ?",
			domain.NormalizeAddress(contractAddress), tokenID).
			First(&nft).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNFTNotFound
			}
			return fmt.Errorf("failed to get nft: %w", err)
		}

		err = tx.Model(&nft).Updates(map[string]interface{}{
			"burned":           true,
			"last_transfer_at": burnedAt,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to mark nft burned: %w", err)
		}

		// A burned token cannot be purchased
		err = tx.Model(&schema.Listing{}).
			Where("nft_id = ? AND active = ?", nft.ID, true).
			Update("active", false).Error
		if err != nil {
			return fmt.Errorf("failed to deactivate listings: %w", err)
		}

		return nil
	})
}

// GetNFTsForReconciliation returns live tokens not verified against the
// chain for at least staleAfter, oldest first
func (s *pgStore) GetNFTsForReconciliation(ctx context.Context, staleAfter time.Duration, limit int) ([]*schema.NFT, error) {
	var nfts []*schema.NFT

	cutoff := time.Now().Add(-staleAfter)
	err := s.db.WithContext(ctx).
		Where("burned = ? AND updated_at < ?", false, cutoff).
		Order("updated_at ASC").
		Limit(limit).
		Find(&nfts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get nfts for reconciliation: %w", err)
	}

	return nfts, nil
}

// CreateListing records a settled listing, deactivating any previous active one
func (s *pgStore) CreateListing(ctx context.Context, input CreateListingInput) (*schema.Listing, error) {
	var listing schema.Listing

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nft schema.NFT
		err := tx.Where("contract_address = ? AND token_id = ?",
			domain.NormalizeAddress(input.ContractAddress), input.TokenID).
			First(&nft).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNFTNotFound
			}
			return fmt.Errorf("failed to get nft: %w", err)
		}

		// A new listing supersedes any previous active one
		err = tx.Model(&schema.Listing{}).
			Where("nft_id = ? AND active = ?", nft.ID, true).
			Update("active", false).Error
		if err != nil {
			return fmt.Errorf("failed to deactivate previous listings: %w", err)
		}

		listing = schema.Listing{
			NFTID:         nft.ID,
			SellerAddress: domain.NormalizeAddress(input.SellerAddress),
			PriceWei:      input.PriceWei,
			Active:        true,
			TxHash:        input.TxHash,
		}
		if err := tx.Create(&listing).Error; err != nil {
			return fmt.Errorf("failed to create listing: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &listing, nil
}

// GetActiveListing returns the active listing for a token
func (s *pgStore) GetActiveListing(ctx context.Context, contractAddress string, tokenID string) (*schema.Listing, error) {
	var listing schema.Listing
	err := s.db.WithContext(ctx).
		Joins("JOIN nfts ON nfts.id = listings.nft_id").
		Where("nfts.contract_address = ? AND nfts.token_id = ? AND listings.active = ?",
			domain.NormalizeAddress(contractAddress), tokenID, true).
		Order("listings.id DESC").
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get active listing: %w", err)
	}

	return &listing, nil
}

// DeactivateListings deactivates all active listings for a token
func (s *pgStore) DeactivateListings(ctx context.Context, contractAddress string, tokenID string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Listing{}).
		Where("nft_id IN (?)",
			s.db.Model(&schema.NFT{}).Select("id").
				Where("contract_address = ? AND token_id = ?", domain.NormalizeAddress(contractAddress), tokenID)).
		Where("active = ?", true).
		Update("active", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate listings: %w", err)
	}

	return nil
}

// RecordSale records a settled purchase, transfers ownership, and deactivates the listing
func (s *pgStore) RecordSale(ctx context.Context, input RecordSaleInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nft schema.NFT
		err := tx.Where("contract_address = ? AND token_id = ?",
			domain.NormalizeAddress(input.ContractAddress), input.TokenID).
			First(&nft).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNFTNotFound
			}
			return fmt.Errorf("failed to get nft: %w", err)
		}

		sale := schema.Sale{
			NFTID:         nft.ID,
			SellerAddress: domain.NormalizeAddress(input.SellerAddress),
			BuyerAddress:  domain.NormalizeAddress(input.BuyerAddress),
			PriceWei:      input.PriceWei,
			TxHash:        input.TxHash,
			LogIndex:      input.LogIndex,
			BlockNumber:   input.BlockNumber,
			SoldAt:        input.SoldAt,
		}

		// Re-processing the same settlement is a no-op
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tx_hash"}, {Name: "log_index"}},
			DoNothing: true,
		}).Clauses(clause.Returning{Columns: []clause.Column{}}).
			Create(&sale).Error; err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}
		if sale.ID == 0 {
			return nil
		}

		err = tx.Model(&schema.NFT{}).
			Where("id = ? AND last_transfer_at <= ?", nft.ID, input.SoldAt).
			Updates(map[string]interface{}{
				"owner_address":    domain.NormalizeAddress(input.BuyerAddress),
				"last_transfer_at": input.SoldAt,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to transfer ownership: %w", err)
		}

		err = tx.Model(&schema.Listing{}).
			Where("nft_id = ? AND active = ?", nft.ID, true).
			Update("active", false).Error
		if err != nil {
			return fmt.Errorf("failed to deactivate listings: %w", err)
		}

		return nil
	})
}

// GetProfile retrieves a wallet profile
func (s *pgStore) GetProfile(ctx context.Context, walletAddress string) (*schema.Profile, error) {
	var profile schema.Profile
	err := s.db.WithContext(ctx).
		Where("wallet_address = ?", domain.CacheKeyAddress(walletAddress)).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// UpsertProfile creates or updates a wallet profile
func (s *pgStore) UpsertProfile(ctx context.Context, profile schema.Profile) (*schema.Profile, error) {
	profile.WalletAddress = domain.CacheKeyAddress(profile.WalletAddress)

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet_address"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "bio", "avatar_cid", "updated_at"}),
	}).Create(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return &profile, nil
}

// CreateTransaction records a submitted transaction
func (s *pgStore) CreateTransaction(ctx context.Context, transaction schema.Transaction) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tx_hash"}},
		DoNothing: true,
	}).Create(&transaction).Error
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// UpdateTransactionStatus updates a transaction record once its receipt is known
func (s *pgStore) UpdateTransactionStatus(ctx context.Context, txHash string, status string, blockNumber uint64, gasUsed uint64) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Transaction{}).
		Where("tx_hash = ?", txHash).
		Updates(map[string]interface{}{
			"status":       status,
			"block_number": blockNumber,
			"gas_used":     gasUsed,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	return nil
}

// GetBlockCursor retrieves the last processed block number for a chain
func (s *pgStore) GetBlockCursor(ctx context.Context, chain string) (uint64, error) {
	key := fmt.Sprintf("block_cursor:%s", chain)

	var kv schema.SyncState
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}

	blockNumber, err := strconv.ParseUint(kv.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}

	return blockNumber, nil
}

// SetBlockCursor stores the last processed block number for a chain
func (s *pgStore) SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error {
	key := fmt.Sprintf("block_cursor:%s", chain)
	value := strconv.FormatUint(blockNumber, 10)

	kv := schema.SyncState{
		Key:   key,
		Value: value,
	}

	err := s.db.WithContext(ctx).Save(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}

	return nil
}
