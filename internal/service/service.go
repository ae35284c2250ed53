package service

import (
	"time"

	"futures-signal-bot/config"
	"futures-signal-bot/internal/repository"
	"futures-signal-bot/internal/signal"
	"futures-signal-bot/pkg/cache"
	"futures-signal-bot/pkg/logger"
)

type Service struct {
	Evaluator      *signal.Evaluator
	MonitorService MonitorService
	SendSignal     SendSignalService
	Scheduler      *Scheduler
	StartedAt      time.Time
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	notifier Notifier,
) *Service {
	evaluator := signal.NewEvaluator(cfg.Signal, log)
	history := NewHistory(cfg.Monitor.HistorySize)
	sendSignal := NewSendSignalService(cfg, log, notifier, repo.SubscriberRepo, inmemoryCache)
	monitor := NewMonitorService(cfg, log, repo.BinanceRepo, repo.WatchlistRepo, evaluator, history, sendSignal)
	scheduler := NewScheduler(cfg, log, monitor)

	return &Service{
		Evaluator:      evaluator,
		MonitorService: monitor,
		SendSignal:     sendSignal,
		Scheduler:      scheduler,
		StartedAt:      time.Now(),
	}
}
