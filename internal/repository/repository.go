package repository

import (
	"futures-signal-bot/config"
	"futures-signal-bot/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	BinanceRepo    BinanceRepository
	SubscriberRepo SubscriberRepository
	WatchlistRepo  WatchlistRepository
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	return &Repository{
		BinanceRepo:    NewBinanceRepository(cfg, log),
		SubscriberRepo: NewSubscriberRepository(db),
		WatchlistRepo:  NewWatchlistRepository(db),
	}, nil
}
