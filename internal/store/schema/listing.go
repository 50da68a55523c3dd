package schema

import "time"

// Listing represents the listings table - one row per listing attempt, at most
// one active row per token
type Listing struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// NFTID references the indexed token this listing belongs to
	NFTID int64 `gorm:"column:nft_id;not null;index:idx_listings_nft_active,priority:1"`
	// SellerAddress is the wallet that created the listing
	SellerAddress string `gorm:"column:seller_address;not null;type:text;index"`
	// PriceWei is the asking price in wei
	PriceWei string `gorm:"column:price_wei;not null;type:numeric(78,0)"`
	// Active is true while the listing can still be purchased
	Active bool `gorm:"column:active;not null;default:true;index:idx_listings_nft_active,priority:2"`
	// TxHash is the transaction that created the listing on chain
	TxHash    string    `gorm:"column:tx_hash;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Listing) TableName() string {
	return "listings"
}
