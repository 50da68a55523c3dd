package schema

import "time"

// Profile represents the profiles table - display information for a wallet.
// WalletAddress is stored lowercased so lookups are case-insensitive.
type Profile struct {
	WalletAddress string    `gorm:"column:wallet_address;primaryKey;type:text"`
	DisplayName   string    `gorm:"column:display_name;type:text"`
	Bio           string    `gorm:"column:bio;type:text"`
	AvatarCID     string    `gorm:"column:avatar_cid;type:text"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
