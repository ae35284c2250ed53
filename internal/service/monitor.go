package service

import (
	"context"
	"encoding/json"
	"fmt"

	"futures-signal-bot/config"
	"futures-signal-bot/internal/dto"
	"futures-signal-bot/internal/model"
	"futures-signal-bot/internal/repository"
	"futures-signal-bot/internal/signal"
	"futures-signal-bot/pkg/logger"
	"futures-signal-bot/pkg/telegram"

	"golang.org/x/sync/errgroup"
)

// oiPeriodLabels maps a Binance open-interest period to the timeframe label
// used in change sets.
var oiPeriodLabels = map[string]string{
	"5m":  "5m",
	"15m": "15m",
	"1h":  "1h",
	"1d":  "24h",
}

// MonitorService runs one evaluation cycle over the watched symbols:
// fetch market data, update rolling history, build the three change sets and
// hand any triggered signal to the sender.
type MonitorService interface {
	RunCycle(ctx context.Context) error
	Symbols(ctx context.Context) []string
}

type monitorService struct {
	cfg           *config.Config
	log           *logger.Logger
	binanceRepo   repository.BinanceRepository
	watchlistRepo repository.WatchlistRepository
	evaluator     *signal.Evaluator
	history       *History
	sender        SendSignalService
}

func NewMonitorService(
	cfg *config.Config,
	log *logger.Logger,
	binanceRepo repository.BinanceRepository,
	watchlistRepo repository.WatchlistRepository,
	evaluator *signal.Evaluator,
	history *History,
	sender SendSignalService,
) MonitorService {
	return &monitorService{
		cfg:           cfg,
		log:           log,
		binanceRepo:   binanceRepo,
		watchlistRepo: watchlistRepo,
		evaluator:     evaluator,
		history:       history,
		sender:        sender,
	}
}

// watchEntry pairs a symbol with the open-interest periods to poll for it.
type watchEntry struct {
	symbol    string
	oiPeriods []string
}

// watchEntries returns the active watchlist with per-symbol settings applied,
// falling back to the configured symbol list when the watchlist is empty or
// unavailable.
func (s *monitorService) watchEntries(ctx context.Context) []watchEntry {
	if s.watchlistRepo != nil {
		items, err := s.watchlistRepo.GetActive(ctx)
		if err != nil {
			s.log.ErrorContext(ctx, "Failed to load watchlist, falling back to configured symbols",
				logger.ErrorField(err))
		} else if len(items) > 0 {
			entries := make([]watchEntry, 0, len(items))
			for _, item := range items {
				entries = append(entries, watchEntry{
					symbol:    item.Symbol,
					oiPeriods: s.oiPeriodsFor(ctx, item),
				})
			}
			return entries
		}
	}

	entries := make([]watchEntry, 0, len(s.cfg.Monitor.Symbols))
	for _, symbol := range s.cfg.Monitor.Symbols {
		entries = append(entries, watchEntry{symbol: symbol, oiPeriods: s.cfg.Monitor.OIPeriods})
	}
	return entries
}

// oiPeriodsFor applies the watchlist item's settings override, keeping the
// configured periods when no override is present or the settings are invalid.
func (s *monitorService) oiPeriodsFor(ctx context.Context, item model.WatchlistItem) []string {
	if len(item.Settings) == 0 {
		return s.cfg.Monitor.OIPeriods
	}

	var settings model.WatchlistSettings
	if err := json.Unmarshal(item.Settings, &settings); err != nil {
		s.log.WarnContext(ctx, "Invalid watchlist settings, using configured OI periods",
			logger.ErrorField(err),
			logger.StringField("symbol", item.Symbol))
		return s.cfg.Monitor.OIPeriods
	}
	if len(settings.OIPeriods) == 0 {
		return s.cfg.Monitor.OIPeriods
	}
	return settings.OIPeriods
}

// Symbols returns the symbols the monitor currently watches.
func (s *monitorService) Symbols(ctx context.Context) []string {
	entries := s.watchEntries(ctx)
	symbols := make([]string, 0, len(entries))
	for _, entry := range entries {
		symbols = append(symbols, entry.symbol)
	}
	return symbols
}

// RunCycle evaluates every watched symbol concurrently. A single symbol's
// failure is logged and skipped; it never aborts the rest of the cycle.
func (s *monitorService) RunCycle(ctx context.Context) error {
	entries := s.watchEntries(ctx)
	if len(entries) == 0 {
		s.log.WarnContext(ctx, "No symbols to monitor")
		return nil
	}

	s.log.DebugContext(ctx, "Starting monitor cycle",
		logger.IntField("symbol_count", len(entries)),
		logger.IntField("max_concurrency", s.cfg.Monitor.MaxConcurrency))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Monitor.MaxConcurrency)

	for _, entry := range entries {
		entry := entry
		g.Go(func() error {
			if err := s.evaluateSymbol(gctx, entry); err != nil {
				s.log.ErrorContext(gctx, "Failed to evaluate symbol",
					logger.ErrorField(err),
					logger.StringField("symbol", entry.symbol))
			}
			return nil
		})
	}

	return g.Wait()
}

func (s *monitorService) evaluateSymbol(ctx context.Context, entry watchEntry) error {
	symbol := entry.symbol

	oiChanges := make(signal.ChangeSet, len(entry.oiPeriods))
	for _, period := range entry.oiPeriods {
		label, ok := oiPeriodLabels[period]
		if !ok {
			label = period
		}

		change, err := s.binanceRepo.GetOpenInterestChange(ctx, symbol, period)
		if err != nil {
			s.log.WarnContext(ctx, "Failed to fetch open interest change",
				logger.ErrorField(err),
				logger.StringField("symbol", symbol),
				logger.StringField("period", period))
			oiChanges[label] = nil
			continue
		}
		oiChanges[label] = change
	}

	ticker, err := s.binanceRepo.GetTicker24h(ctx, symbol)
	if err != nil {
		return fmt.Errorf("failed to fetch ticker: %w", err)
	}

	s.history.Observe(symbol, ticker.LastPrice, ticker.Volume)

	priceChanges := s.history.PriceChanges(symbol)
	priceChanges["24h"] = &ticker.PriceChangePercent
	volumeChanges := s.history.VolumeChanges(symbol)

	sig, err := s.evaluator.Evaluate(ctx, signal.Input{
		Symbol:        symbol,
		CurrentPrice:  ticker.LastPrice,
		OIChanges:     oiChanges,
		PriceChanges:  priceChanges,
		VolumeChanges: volumeChanges,
	})
	if err != nil {
		return fmt.Errorf("evaluation rejected input: %w", err)
	}

	if s.cfg.Monitor.BroadcastUpdates {
		s.broadcastUpdate(ctx, symbol, ticker, oiChanges, priceChanges, volumeChanges)
	}

	if sig == nil {
		return nil
	}

	if _, err := s.sender.SendLongSignal(ctx, sig); err != nil {
		return fmt.Errorf("failed to send signal: %w", err)
	}
	return nil
}

// broadcastUpdate sends the per-cycle market snapshot for one symbol to the
// subscribers. A missing funding rate degrades the message, never the cycle.
func (s *monitorService) broadcastUpdate(ctx context.Context, symbol string, ticker *dto.TickerSnapshot, oiChanges, priceChanges, volumeChanges signal.ChangeSet) {
	fundingRate, err := s.binanceRepo.GetFundingRate(ctx, symbol)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to fetch funding rate",
			logger.ErrorField(err),
			logger.StringField("symbol", symbol))
	}

	message := telegram.FormatMarketUpdate(symbol, ticker.LastPrice, ticker.Volume, fundingRate,
		oiChanges, priceChanges, volumeChanges)
	if err := s.sender.BroadcastMarketUpdate(ctx, message); err != nil {
		s.log.ErrorContext(ctx, "Failed to broadcast market update",
			logger.ErrorField(err),
			logger.StringField("symbol", symbol))
	}
}
