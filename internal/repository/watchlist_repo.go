package repository

import (
	"context"

	"futures-signal-bot/internal/model"

	"gorm.io/gorm"
)

type WatchlistRepository interface {
	GetActive(ctx context.Context) ([]model.WatchlistItem, error)
	Create(ctx context.Context, item *model.WatchlistItem) error
	DeactivateBySymbol(ctx context.Context, symbol string) error
}

type watchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) GetActive(ctx context.Context) ([]model.WatchlistItem, error) {
	var items []model.WatchlistItem
	result := r.db.WithContext(ctx).Where("is_active = ?", true).Order("symbol asc").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

func (r *watchlistRepository) Create(ctx context.Context, item *model.WatchlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *watchlistRepository) DeactivateBySymbol(ctx context.Context, symbol string) error {
	return r.db.WithContext(ctx).
		Model(&model.WatchlistItem{}).
		Where("symbol = ?", symbol).
		Update("is_active", false).Error
}
