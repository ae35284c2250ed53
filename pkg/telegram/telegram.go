package telegram

import (
	"context"
	"sync"
	"time"

	"futures-signal-bot/config"
	"futures-signal-bot/pkg/logger"
	"futures-signal-bot/pkg/utils"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

type chatLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimitedSender wraps the telebot API with a global limiter plus a
// per-chat limiter, so broadcast fan-out stays inside Telegram's limits.
type RateLimitedSender struct {
	cfg           *config.TelegramConfig
	log           *logger.Logger
	bot           *telebot.Bot
	globalLimiter *rate.Limiter
	chatLimiters  map[int64]*chatLimiterEntry
	mu            sync.Mutex
	wg            sync.WaitGroup
}

func NewRateLimitedSender(cfg *config.TelegramConfig, log *logger.Logger, bot *telebot.Bot) *RateLimitedSender {
	return &RateLimitedSender{
		cfg:           cfg,
		log:           log,
		bot:           bot,
		globalLimiter: rate.NewLimiter(rate.Limit(cfg.MaxGlobalRequestPerSecond), cfg.MaxGlobalRequestPerSecond),
		chatLimiters:  make(map[int64]*chatLimiterEntry),
	}
}

// SendMessage delivers a message to a single chat, waiting on both limiters.
func (t *RateLimitedSender) SendMessage(ctx context.Context, chatID int64, message string, opts ...interface{}) error {
	if err := t.checkRateLimit(ctx, chatID); err != nil {
		return err
	}
	_, err := t.bot.Send(&telebot.Chat{ID: chatID}, message, opts...)
	return err
}

func (t *RateLimitedSender) getChatLimiter(chatID int64) *chatLimiterEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry, exists := t.chatLimiters[chatID]; exists {
		entry.lastAccess = time.Now()
		return entry
	}

	entry := &chatLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(t.cfg.MaxChatRequestPerSecond), t.cfg.MaxChatRequestPerSecond),
		lastAccess: time.Now(),
	}
	t.chatLimiters[chatID] = entry
	return entry
}

func (t *RateLimitedSender) checkRateLimit(ctx context.Context, chatID int64) error {
	chatLimiter := t.getChatLimiter(chatID)

	if err := t.globalLimiter.Wait(ctx); err != nil {
		t.log.ErrorContext(ctx, "Failed to wait for global rate limit", logger.ErrorField(err))
		return err
	}
	if err := chatLimiter.limiter.Wait(ctx); err != nil {
		t.log.ErrorContext(ctx, "Failed to wait for chat rate limit", logger.ErrorField(err))
		return err
	}
	return nil
}

// StartCleanupExpired periodically discards limiters for chats that have not
// been messaged for a while.
func (t *RateLimitedSender) StartCleanupExpired(ctx context.Context) {
	t.wg.Add(1)
	utils.GoSafe(func() {
		defer t.wg.Done()
		ticker := time.NewTicker(t.cfg.RateLimitCleanupDuration)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				t.log.Info("Received signal to stop Telegram rate limiter cleanup")
				return
			case <-ticker.C:
				t.mu.Lock()
				now := time.Now()
				for chatID, entry := range t.chatLimiters {
					if now.Sub(entry.lastAccess) > t.cfg.RatelimitExpireDuration {
						delete(t.chatLimiters, chatID)
					}
				}
				t.mu.Unlock()
			}
		}
	})
}

func (t *RateLimitedSender) StopCleanupExpired() {
	t.wg.Wait()
	t.log.Info("Telegram rate limiter stopped")
}
