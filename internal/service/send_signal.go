package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"futures-signal-bot/config"
	"futures-signal-bot/internal/repository"
	"futures-signal-bot/internal/signal"
	"futures-signal-bot/pkg/cache"
	"futures-signal-bot/pkg/logger"
	"futures-signal-bot/pkg/telegram"

	"gopkg.in/telebot.v3"
)

const keyLastSentSignal = "signal:sent:%s"

// Notifier delivers a rendered message to a Telegram chat.
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, message string, opts ...interface{}) error
}

type SendSignalService interface {
	SendLongSignal(ctx context.Context, sig *signal.Signal) (bool, error)
	BroadcastMarketUpdate(ctx context.Context, message string) error
}

type sendSignalService struct {
	cfg            *config.Config
	log            *logger.Logger
	notifier       Notifier
	subscriberRepo repository.SubscriberRepository
	inmemoryCache  cache.Cache
}

func NewSendSignalService(
	cfg *config.Config,
	log *logger.Logger,
	notifier Notifier,
	subscriberRepo repository.SubscriberRepository,
	inmemoryCache cache.Cache,
) SendSignalService {
	return &sendSignalService{
		cfg:            cfg,
		log:            log,
		notifier:       notifier,
		subscriberRepo: subscriberRepo,
		inmemoryCache:  inmemoryCache,
	}
}

// SendLongSignal fans a triggered signal out to every active subscriber. A
// signal with the same symbol and entry is sent at most once per dedup
// window. Returns whether anything was actually dispatched.
func (s *sendSignalService) SendLongSignal(ctx context.Context, sig *signal.Signal) (bool, error) {
	if sig == nil {
		return false, nil
	}

	hashIdentifier := s.generateHashIdentifier(sig)
	cacheKey := fmt.Sprintf(keyLastSentSignal, hashIdentifier)
	if _, alreadySent := s.inmemoryCache.Get(cacheKey); alreadySent {
		s.log.DebugContext(ctx, "Long signal already sent",
			logger.StringField("symbol", sig.Symbol))
		return false, nil
	}

	subscribers, err := s.subscriberRepo.GetActive(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get subscribers", logger.ErrorField(err))
		return false, err
	}
	if len(subscribers) == 0 {
		s.log.WarnContext(ctx, "No active subscribers to send signal to",
			logger.StringField("symbol", sig.Symbol))
		return false, nil
	}

	s.inmemoryCache.Set(cacheKey, true, s.cfg.Signal.DedupCacheDuration)

	message := telegram.FormatLongSignal(sig.Symbol, sig.Entry, sig.StopLoss, sig.TakeProfits)

	sent := false
	for _, subscriber := range subscribers {
		if errSend := s.notifier.SendMessage(ctx, subscriber.ChatID, message, telebot.ModeHTML); errSend != nil {
			s.log.ErrorContext(ctx, "Failed to send long signal",
				logger.ErrorField(errSend),
				logger.StringField("symbol", sig.Symbol),
				logger.Field("chat_id", subscriber.ChatID))
			continue
		}
		sent = true
	}

	s.log.InfoContext(ctx, "Long signal dispatched",
		logger.StringField("symbol", sig.Symbol),
		logger.Float64Field("entry", sig.Entry),
		logger.Float64Field("stop_loss", sig.StopLoss),
		logger.Float64Field("take_profit", sig.TakeProfits[0]),
		logger.IntField("subscribers", len(subscribers)))

	return sent, nil
}

// BroadcastMarketUpdate fans a rendered market update out to every active
// subscriber. Updates are per-cycle snapshots, so there is no dedup window.
func (s *sendSignalService) BroadcastMarketUpdate(ctx context.Context, message string) error {
	subscribers, err := s.subscriberRepo.GetActive(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get subscribers", logger.ErrorField(err))
		return err
	}

	for _, subscriber := range subscribers {
		if errSend := s.notifier.SendMessage(ctx, subscriber.ChatID, message, telebot.ModeHTML); errSend != nil {
			s.log.ErrorContext(ctx, "Failed to send market update",
				logger.ErrorField(errSend),
				logger.Field("chat_id", subscriber.ChatID))
			continue
		}
	}
	return nil
}

func (s *sendSignalService) generateHashIdentifier(sig *signal.Signal) string {
	hashInput := fmt.Sprintf("%s|%f", sig.Symbol, sig.Entry)
	hash := sha256.Sum256([]byte(hashInput))
	return hex.EncodeToString(hash[:])
}
