package model

import (
	"time"

	"gorm.io/datatypes"
)

// WatchlistItem is one symbol the monitor polls. Settings carries optional
// per-symbol overrides (e.g. custom OI periods) as free-form JSON.
type WatchlistItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Symbol    string         `gorm:"not null;uniqueIndex" json:"symbol"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	Settings  datatypes.JSON `json:"settings"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WatchlistItem) TableName() string {
	return "watchlist_items"
}

// WatchlistSettings is the decoded shape of WatchlistItem.Settings.
type WatchlistSettings struct {
	OIPeriods []string `json:"oi_periods,omitempty"`
}
