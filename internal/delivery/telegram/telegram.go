package telegram

import (
	"context"
	"time"

	"futures-signal-bot/internal/repository"
	"futures-signal-bot/internal/service"
	"futures-signal-bot/pkg/logger"

	"gopkg.in/telebot.v3"
)

type TelegramBotHandler struct {
	ctx            context.Context
	bot            *telebot.Bot
	log            *logger.Logger
	sender         service.Notifier
	service        *service.Service
	subscriberRepo repository.SubscriberRepository
}

func NewTelegramBotHandler(
	ctx context.Context,
	log *logger.Logger,
	bot *telebot.Bot,
	sender service.Notifier,
	service *service.Service,
	subscriberRepo repository.SubscriberRepository,
) *TelegramBotHandler {
	return &TelegramBotHandler{
		ctx:            ctx,
		log:            log,
		bot:            bot,
		sender:         sender,
		service:        service,
		subscriberRepo: subscriberRepo,
	}
}

// Start registers the command handlers and begins long polling. Blocks until
// Stop is called.
func (t *TelegramBotHandler) Start() {
	t.log.Info("Starting Telegram bot...")

	t.RegisterHandlers()
	t.bot.Start()
}

func (t *TelegramBotHandler) Stop() {
	t.log.Info("Stopping Telegram bot...")

	ctx, cancel := context.WithTimeout(t.ctx, 10*time.Second)
	defer cancel()

	stopDone := make(chan struct{}, 1)
	go func() {
		t.bot.Stop()
		stopDone <- struct{}{}
	}()

	select {
	case <-stopDone:
		t.log.Info("Telegram bot stopped successfully")
	case <-ctx.Done():
		t.log.Warn("Timeout while stopping bot, forcing shutdown")
	}
}

func (t *TelegramBotHandler) RegisterHandlers() {
	t.bot.Handle("/start", func(c telebot.Context) error {
		return t.handleStart(t.ctx, c)
	})
	t.bot.Handle("/stop", func(c telebot.Context) error {
		return t.handleStop(t.ctx, c)
	})
	t.bot.Handle("/status", func(c telebot.Context) error {
		return t.handleStatus(t.ctx, c)
	})
}
