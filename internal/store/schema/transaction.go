package schema

import "time"

// Transaction represents the transactions table - a record of every
// marketplace transaction this service submitted or observed settling
type Transaction struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// RunID groups the transactions of a single creation pipeline run
	RunID string `gorm:"column:run_id;type:text;index"`
	// Kind is the marketplace operation (mint, approve, list, buy)
	Kind string `gorm:"column:kind;not null;type:text"`
	// Status is pending, confirmed, or reverted
	Status string `gorm:"column:status;not null;type:text;index"`
	// TxHash is the transaction hash
	TxHash string `gorm:"column:tx_hash;not null;type:text;uniqueIndex"`
	// ContractAddress is the collection contract the transaction targets
	ContractAddress string `gorm:"column:contract_address;type:text"`
	// TokenID is the token the transaction targets, when known
	TokenID string `gorm:"column:token_id;type:text"`
	// WalletAddress is the wallet on whose behalf the transaction ran
	WalletAddress string `gorm:"column:wallet_address;not null;type:text;index"`
	// BlockNumber is the block the transaction was mined in (0 while pending)
	BlockNumber uint64 `gorm:"column:block_number;not null;default:0"`
	// GasUsed is the gas consumed by the mined transaction
	GasUsed   uint64    `gorm:"column:gas_used;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
