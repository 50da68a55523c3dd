package schema

import (
	"time"
)

// NFT represents the nfts table - the index record for a marketplace token
type NFT struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// ContractAddress is the checksummed address of the collection contract
	ContractAddress string `gorm:"column:contract_address;not null;type:text;uniqueIndex:idx_nfts_contract_token,priority:1"`
	// TokenID is the token number within the contract (string to support very large numbers)
	TokenID string `gorm:"column:token_id;not null;type:text;uniqueIndex:idx_nfts_contract_token,priority:2"`
	// Name is the display name from the token metadata
	Name string `gorm:"column:name;type:text"`
	// Description is the long-form description from the token metadata
	Description string `gorm:"column:description;type:text"`
	// ImageCID is the content identifier of the pinned asset
	ImageCID string `gorm:"column:image_cid;type:text"`
	// MetadataCID is the content identifier of the pinned metadata document
	MetadataCID string `gorm:"column:metadata_cid;type:text"`
	// CreatorAddress is the wallet that minted the token
	CreatorAddress string `gorm:"column:creator_address;type:text;index"`
	// OwnerAddress is the wallet currently holding the token
	OwnerAddress string `gorm:"column:owner_address;not null;type:text;index"`
	// RoyaltyBasisPoint is the creator royalty in basis points (0-1000)
	RoyaltyBasisPoint int64 `gorm:"column:royalty_basis_point;not null;default:0"`
	// Burned indicates whether the token has been permanently destroyed
	Burned bool `gorm:"column:burned;not null;default:false"`
	// LastTransferAt records the block timestamp of the most recent ownership change
	LastTransferAt time.Time `gorm:"column:last_transfer_at;not null;default:now()"`
	// CreatedAt is the timestamp when this record was first indexed
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	// UpdatedAt is the timestamp of the last index write
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Associations
	Listings []Listing `gorm:"foreignKey:NFTID;constraint:OnDelete:CASCADE"`
	Sales    []Sale    `gorm:"foreignKey:NFTID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the NFT model
func (NFT) TableName() string {
	return "nfts"
}
