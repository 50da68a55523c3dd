package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcnft/marketplace-sync/internal/domain"
	"github.com/arcnft/marketplace-sync/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

const (
	testOwnerAddress   = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	testCreatorAddress = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
	testBuyerAddress   = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"
)

// buildTestNFT creates a test token input
func buildTestNFT(contract, tokenID string) UpsertNFTInput {
	return UpsertNFTInput{
		ContractAddress:   contract,
		TokenID:           tokenID,
		Name:              fmt.Sprintf("Test Token #%s", tokenID),
		Description:       "a test token",
		ImageCID:          "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		MetadataCID:       "QmPK1s3pNYLi9ERiq3BDxKa4XosgWwFRQUydHUtz4YgpqB",
		CreatorAddress:    testCreatorAddress,
		OwnerAddress:      testOwnerAddress,
		RoyaltyBasisPoint: 500,
		LastTransferAt:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testContractAddr(n int) string {
	return fmt.Sprintf("0x%040d", n)
}

// =============================================================================
// Test: UpsertNFT / GetNFT
// =============================================================================

func testUpsertNFT(t *testing.T, store Store) {
	ctx := context.Background()
	contract := testContractAddr(1)

	t.Run("create and fetch round trip", func(t *testing.T) {
		input := buildTestNFT(contract, "1")

		created, err := store.UpsertNFT(ctx, input)
		require.NoError(t, err)
		require.NotZero(t, created.ID)
		assert.Equal(t, "1", created.TokenID)
		assert.Equal(t, domain.NormalizeAddress(contract), created.ContractAddress)

		got, err := store.GetNFT(ctx, contract, "1")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, input.Name, got.Name)
		assert.Equal(t, input.ImageCID, got.ImageCID)
		assert.Equal(t, int64(500), got.RoyaltyBasisPoint)
		assert.False(t, got.Burned)
	})

	t.Run("second upsert updates in place", func(t *testing.T) {
		input := buildTestNFT(contract, "2")
		first, err := store.UpsertNFT(ctx, input)
		require.NoError(t, err)

		input.Name = "Renamed"
		input.OwnerAddress = testBuyerAddress
		second, err := store.UpsertNFT(ctx, input)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Renamed", second.Name)
		assert.Equal(t, domain.NormalizeAddress(testBuyerAddress), second.OwnerAddress)
	})

	t.Run("addresses are normalized to checksum form", func(t *testing.T) {
		mixedContract := "0x00000000000000000000000000000000000000AB"
		input := buildTestNFT(mixedContract, "3")
		input.OwnerAddress = "0x742d35cc6634c0532925a3b844bc454e4438f44e"

		created, err := store.UpsertNFT(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, testOwnerAddress, created.OwnerAddress)

		// Lookup works regardless of input casing
		got, err := store.GetNFT(ctx, "0x00000000000000000000000000000000000000ab", "3")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unknown token returns ErrNFTNotFound", func(t *testing.T) {
		_, err := store.GetNFT(ctx, contract, "999")
		assert.ErrorIs(t, err, domain.ErrNFTNotFound)
	})
}

// =============================================================================
// Test: GetNFTs
// =============================================================================

func testGetNFTs(t *testing.T, store Store) {
	ctx := context.Background()
	contract := testContractAddr(2)

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		input := buildTestNFT(contract, fmt.Sprintf("%d", i))
		input.LastTransferAt = base.Add(time.Duration(i) * time.Hour)
		if i == 5 {
			input.OwnerAddress = testBuyerAddress
		}
		_, err := store.UpsertNFT(ctx, input)
		require.NoError(t, err)
	}

	// Token 3 gets an active listing, token 4 is burned
	_, err := store.CreateListing(ctx, CreateListingInput{
		ContractAddress: contract,
		TokenID:         "3",
		SellerAddress:   testOwnerAddress,
		PriceWei:        "1000000000000000000",
	})
	require.NoError(t, err)
	require.NoError(t, store.MarkNFTBurned(ctx, contract, "4", base.Add(6*time.Hour)))

	t.Run("burned tokens are hidden by default", func(t *testing.T) {
		rows, total, err := store.GetNFTs(ctx, NFTQueryFilter{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, uint64(4), total)
		require.Len(t, rows, 4)
		for _, row := range rows {
			assert.False(t, row.NFT.Burned)
		}
	})

	t.Run("include_burned returns everything", func(t *testing.T) {
		_, total, err := store.GetNFTs(ctx, NFTQueryFilter{IncludeBurned: true, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, uint64(5), total)
	})

	t.Run("results ordered by most recent transfer", func(t *testing.T) {
		rows, _, err := store.GetNFTs(ctx, NFTQueryFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "5", rows[0].NFT.TokenID)
		assert.Equal(t, "3", rows[1].NFT.TokenID)
	})

	t.Run("owner filter", func(t *testing.T) {
		rows, total, err := store.GetNFTs(ctx, NFTQueryFilter{
			OwnerAddress: testBuyerAddress,
			Limit:        10,
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, "5", rows[0].NFT.TokenID)
	})

	t.Run("listed filter joins the active listing", func(t *testing.T) {
		rows, total, err := store.GetNFTs(ctx, NFTQueryFilter{ListedOnly: true, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, "3", rows[0].NFT.TokenID)
		require.NotNil(t, rows[0].Listing)
		assert.Equal(t, "1000000000000000000", rows[0].Listing.PriceWei)
	})

	t.Run("pagination offset", func(t *testing.T) {
		rows, total, err := store.GetNFTs(ctx, NFTQueryFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, uint64(4), total)
		require.Len(t, rows, 2)
		assert.Equal(t, "2", rows[0].NFT.TokenID)
	})
}

// =============================================================================
// Test: UpdateNFTOwner / MarkNFTBurned
// =============================================================================

func testUpdateNFTOwner(t *testing.T, store Store) {
	ctx := context.Background()
	contract := testContractAddr(3)

	input := buildTestNFT(contract, "1")
	input.LastTransferAt = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	_, err := store.UpsertNFT(ctx, input)
	require.NoError(t, err)

	t.Run("newer transfer moves ownership", func(t *testing.T) {
		transferredAt := input.LastTransferAt.Add(time.Hour)
		err := store.UpdateNFTOwner(ctx, contract, "1", testBuyerAddress, transferredAt)
		require.NoError(t, err)

		got, err := store.GetNFT(ctx, contract, "1")
		require.NoError(t, err)
		assert.Equal(t, domain.NormalizeAddress(testBuyerAddress), got.OwnerAddress)
		assert.WithinDuration(t, transferredAt, got.LastTransferAt, time.Second)
	})

	t.Run("out of order transfer is dropped", func(t *testing.T) {
		stale := input.LastTransferAt.Add(30 * time.Minute)
		err := store.UpdateNFTOwner(ctx, contract, "1", testCreatorAddress, stale)
		require.NoError(t, err)

		got, err := store.GetNFT(ctx, contract, "1")
		require.NoError(t, err)
		assert.Equal(t, domain.NormalizeAddress(testBuyerAddress), got.OwnerAddress)
	})

	t.Run("unknown token returns ErrNFTNotFound", func(t *testing.T) {
		err := store.UpdateNFTOwner(ctx, contract, "999", testBuyerAddress, time.Now())
		assert.ErrorIs(t, err, domain.ErrNFTNotFound)
	})
}

func testMarkNFTBurned(t *testing.T, store Store) {
	ctx := context.Background()
	contract := testContractAddr(4)

	input := buildTestNFT(contract, "1")
	_, err := store.UpsertNFT(ctx, input)
	require.NoError(t, err)

	_, err = store.CreateListing(ctx, CreateListingInput{
		ContractAddress: contract,
		TokenID:         "1",
		SellerAddress:   testOwnerAddress,
		PriceWei:        "5000",
	})
	require.NoError(t, err)

	t.Run("burn flags the token and kills its listing", func(t *testing.T) {
		burnedAt := input.LastTransferAt.Add(time.Hour)
		require.NoError(t, store.MarkNFTBurned(ctx, contract, "1", burnedAt))

		got, err := store.GetNFT(ctx, contract, "1")
		require.NoError(t, err)
		assert.True(t, got.Burned)

		_, err = store.GetActiveListing(ctx, contract, "1")
		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})

	t.Run("burning an unknown token fails", func(t *testing.T) {
		err := store.MarkNFTBurned(ctx, contract, "999", time.Now())
		assert.ErrorIs(t, err, domain.ErrNFTNotFound)
	})
}

// =============================================================================
// Test: GetNFTsForReconciliation
// =============================================================================

func testGetNFTsForReconciliation(t *testing.T, store Store) {
	ctx := context.Background()
	contract := testContractAddr(5)

	for i := 1; i <= 3; i++ {
		_, err := store.UpsertNFT(ctx, buildTestNFT(contract, fmt.Sprintf("%d", i)))
		require.NoError(t, err)
	}
	require.NoError(t, store.MarkNFTBurned(ctx, contract, "3", time.Now()))

	t.Run("recently written rows are not stale", func(t *testing.T) {
		nfts, err := store.GetNFTsForReconciliation(ctx, time.Hour, 10)
		require.NoError(t, err)
		assert.Empty(t, nfts)
	})

	t.Run("live rows past the cutoff are returned, burned ones never", func(t *testing.T) {
		// A negative staleAfter puts the cutoff in the future, so every
		// live row qualifies
		nfts, err := store.GetNFTsForReconciliation(ctx, -time.Minute, 10)
		require.NoError(t, err)
		require.Len(t, nfts, 2)
		for _, nft := range nfts {
			assert.False(t, nft.Burned)
		}
	})

	t.Run("limit bounds the batch", func(t *testing.T) {
		nfts, err := store.GetNFTsForReconciliation(ctx, -time.Minute, 1)
		require.NoError(t, err)
		assert.Len(t, nfts, 1)
	})
}

// =============================================================================
// Test: Listings
// =============================================================================

func testListings(t *testing.T, store Store) {
	ctx := context.Background()
	contract := testContractAddr(6)

	nft, err := store.UpsertNFT(ctx, buildTestNFT(contract, "1"))
	require.NoError(t, err)

	t.Run("listing an unknown token fails", func(t *testing.T) {
		_, err := store.CreateListing(ctx, CreateListingInput{
			ContractAddress: contract,
			TokenID:         "999",
			SellerAddress:   testOwnerAddress,
			PriceWei:        "100",
		})
		assert.ErrorIs(t, err, domain.ErrNFTNotFound)
	})

	t.Run("create and read back the active listing", func(t *testing.T) {
		listing, err := store.CreateListing(ctx, CreateListingInput{
			ContractAddress: contract,
			TokenID:         "1",
			SellerAddress:   testOwnerAddress,
			PriceWei:        "1000000000000000000",
			TxHash:          "0xlist1",
		})
		require.NoError(t, err)
		assert.Equal(t, nft.ID, listing.NFTID)
		assert.True(t, listing.Active)

		got, err := store.GetActiveListing(ctx, contract, "1")
		require.NoError(t, err)
		assert.Equal(t, listing.ID, got.ID)
		assert.Equal(t, "1000000000000000000", got.PriceWei)
	})

	t.Run("a new listing supersedes the previous one", func(t *testing.T) {
		relisted, err := store.CreateListing(ctx, CreateListingInput{
			ContractAddress: contract,
			TokenID:         "1",
			SellerAddress:   testOwnerAddress,
			PriceWei:        "2000000000000000000",
			TxHash:          "0xlist2",
		})
		require.NoError(t, err)

		got, err := store.GetActiveListing(ctx, contract, "1")
		require.NoError(t, err)
		assert.Equal(t, relisted.ID, got.ID)
		assert.Equal(t, "2000000000000000000", got.PriceWei)
	})

	t.Run("deactivation clears the active listing", func(t *testing.T) {
		require.NoError(t, store.DeactivateListings(ctx, contract, "1"))

		_, err := store.GetActiveListing(ctx, contract, "1")
		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})
}

// =============================================================================
// Test: RecordSale
// =============================================================================

func testRecordSale(t *testing.T, store Store) {
	ctx := context.Background()
	contract := testContractAddr(7)

	input := buildTestNFT(contract, "1")
	_, err := store.UpsertNFT(ctx, input)
	require.NoError(t, err)

	_, err = store.CreateListing(ctx, CreateListingInput{
		ContractAddress: contract,
		TokenID:         "1",
		SellerAddress:   testOwnerAddress,
		PriceWei:        "1000000000000000000",
	})
	require.NoError(t, err)

	soldAt := input.LastTransferAt.Add(time.Hour)
	sale := RecordSaleInput{
		ContractAddress: contract,
		TokenID:         "1",
		SellerAddress:   testOwnerAddress,
		BuyerAddress:    testBuyerAddress,
		PriceWei:        "1000000000000000000",
		TxHash:          "0xsale1",
		LogIndex:        3,
		BlockNumber:     1200,
		SoldAt:          soldAt,
	}

	t.Run("sale transfers ownership and closes the listing", func(t *testing.T) {
		require.NoError(t, store.RecordSale(ctx, sale))

		got, err := store.GetNFT(ctx, contract, "1")
		require.NoError(t, err)
		assert.Equal(t, domain.NormalizeAddress(testBuyerAddress), got.OwnerAddress)
		assert.WithinDuration(t, soldAt, got.LastTransferAt, time.Second)

		_, err = store.GetActiveListing(ctx, contract, "1")
		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})

	t.Run("replaying the same settlement is a no-op", func(t *testing.T) {
		require.NoError(t, store.RecordSale(ctx, sale))

		pg, ok := store.(*pgStore)
		require.True(t, ok)
		var count int64
		require.NoError(t, pg.db.Model(&schema.Sale{}).
			Where("tx_hash = ? AND log_index = ?", sale.TxHash, sale.LogIndex).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("sale for an unknown token fails", func(t *testing.T) {
		bad := sale
		bad.TokenID = "999"
		bad.TxHash = "0xsale2"
		assert.ErrorIs(t, store.RecordSale(ctx, bad), domain.ErrNFTNotFound)
	})
}

// =============================================================================
// Test: Profiles
// =============================================================================

func testProfiles(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing profile returns ErrProfileNotFound", func(t *testing.T) {
		_, err := store.GetProfile(ctx, testOwnerAddress)
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})

	t.Run("create, update, and case-insensitive lookup", func(t *testing.T) {
		created, err := store.UpsertProfile(ctx, schema.Profile{
			WalletAddress: testOwnerAddress,
			DisplayName:   "alice",
			Bio:           "collector",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.CacheKeyAddress(testOwnerAddress), created.WalletAddress)

		updated, err := store.UpsertProfile(ctx, schema.Profile{
			WalletAddress: testOwnerAddress,
			DisplayName:   "alice v2",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice v2", updated.DisplayName)

		got, err := store.GetProfile(ctx, domain.CacheKeyAddress(testOwnerAddress))
		require.NoError(t, err)
		assert.Equal(t, "alice v2", got.DisplayName)
	})
}

// =============================================================================
// Test: Transactions
// =============================================================================

func testTransactions(t *testing.T, store Store) {
	ctx := context.Background()

	pg, ok := store.(*pgStore)
	require.True(t, ok)

	tx := schema.Transaction{
		RunID:  "run-1",
		Kind:   "mint",
		Status: "pending",
		TxHash: "0xtx1",
	}

	t.Run("create is idempotent on tx hash", func(t *testing.T) {
		require.NoError(t, store.CreateTransaction(ctx, tx))
		require.NoError(t, store.CreateTransaction(ctx, tx))

		var count int64
		require.NoError(t, pg.db.Model(&schema.Transaction{}).
			Where("tx_hash = ?", tx.TxHash).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("status update records receipt fields", func(t *testing.T) {
		require.NoError(t, store.UpdateTransactionStatus(ctx, tx.TxHash, "confirmed", 1234, 21000))

		var got schema.Transaction
		require.NoError(t, pg.db.Where("tx_hash = ?", tx.TxHash).First(&got).Error)
		assert.Equal(t, "confirmed", got.Status)
		assert.Equal(t, uint64(1234), got.BlockNumber)
		assert.Equal(t, uint64(21000), got.GasUsed)
	})
}

// =============================================================================
// Test: Block cursor
// =============================================================================

func testBlockCursor(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing cursor reads as zero", func(t *testing.T) {
		cursor, err := store.GetBlockCursor(ctx, "sepolia")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), cursor)
	})

	t.Run("set, read, and overwrite", func(t *testing.T) {
		require.NoError(t, store.SetBlockCursor(ctx, "sepolia", 1000))

		cursor, err := store.GetBlockCursor(ctx, "sepolia")
		require.NoError(t, err)
		assert.Equal(t, uint64(1000), cursor)

		require.NoError(t, store.SetBlockCursor(ctx, "sepolia", 1500))
		cursor, err = store.GetBlockCursor(ctx, "sepolia")
		require.NoError(t, err)
		assert.Equal(t, uint64(1500), cursor)
	})

	t.Run("cursors are per chain", func(t *testing.T) {
		require.NoError(t, store.SetBlockCursor(ctx, "mainnet", 99))

		cursor, err := store.GetBlockCursor(ctx, "sepolia")
		require.NoError(t, err)
		assert.Equal(t, uint64(1500), cursor)
	})
}

// =============================================================================
// Test Runner - runs all tests against a given store implementation
// =============================================================================

func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"UpsertNFT", testUpsertNFT},
		{"GetNFTs", testGetNFTs},
		{"UpdateNFTOwner", testUpdateNFTOwner},
		{"MarkNFTBurned", testMarkNFTBurned},
		{"GetNFTsForReconciliation", testGetNFTsForReconciliation},
		{"Listings", testListings},
		{"RecordSale", testRecordSale},
		{"Profiles", testProfiles},
		{"Transactions", testTransactions},
		{"BlockCursor", testBlockCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
