package schema

import "time"

// Sale represents the sales table - a settled purchase
type Sale struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// NFTID references the indexed token that was sold
	NFTID int64 `gorm:"column:nft_id;not null;index"`
	// SellerAddress is the wallet that held the token before the sale
	SellerAddress string `gorm:"column:seller_address;not null;type:text;index"`
	// BuyerAddress is the wallet that purchased the token
	BuyerAddress string `gorm:"column:buyer_address;not null;type:text;index"`
	// PriceWei is the settled price in wei
	PriceWei string `gorm:"column:price_wei;not null;type:numeric(78,0)"`
	// TxHash and LogIndex identify the on-chain settlement uniquely
	TxHash   string `gorm:"column:tx_hash;not null;type:text;uniqueIndex:idx_sales_tx_log,priority:1"`
	LogIndex uint   `gorm:"column:log_index;not null;uniqueIndex:idx_sales_tx_log,priority:2"`
	// BlockNumber is the block in which the sale settled
	BlockNumber uint64 `gorm:"column:block_number;not null"`
	// SoldAt is the block timestamp of the settlement
	SoldAt    time.Time `gorm:"column:sold_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Sale) TableName() string {
	return "sales"
}
