package schema

import "time"

// SyncState persists small pieces of watcher state, keyed by name.
// Block cursors live here as one row per chain.
type SyncState struct {
	Key       string    `gorm:"primaryKey;type:text"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (SyncState) TableName() string {
	return "sync_state"
}
