package telegram

import (
	"context"
	"fmt"
	"strings"

	"futures-signal-bot/internal/model"
	"futures-signal-bot/pkg/logger"

	"gopkg.in/telebot.v3"
)

// Replies go through the rate-limited sender, the same path the signal
// fan-out uses, so command traffic counts against the per-chat budget too.

func (t *TelegramBotHandler) handleStart(ctx context.Context, c telebot.Context) error {
	chat := c.Chat()

	subscriber := &model.Subscriber{
		ChatID:   chat.ID,
		ChatType: string(chat.Type),
		Title:    chatTitle(chat),
		IsActive: true,
	}
	if err := t.subscriberRepo.Upsert(ctx, subscriber); err != nil {
		t.log.ErrorContext(ctx, "Failed to subscribe chat",
			logger.ErrorField(err),
			logger.Field("chat_id", chat.ID))
		return t.sender.SendMessage(ctx, chat.ID, "Something went wrong, please try again later.")
	}

	t.log.InfoContext(ctx, "Chat subscribed",
		logger.Field("chat_id", chat.ID),
		logger.StringField("chat_type", string(chat.Type)))

	return t.sender.SendMessage(ctx, chat.ID, welcomeMessage(), telebot.ModeHTML)
}

func (t *TelegramBotHandler) handleStop(ctx context.Context, c telebot.Context) error {
	chat := c.Chat()

	if err := t.subscriberRepo.Deactivate(ctx, chat.ID); err != nil {
		t.log.ErrorContext(ctx, "Failed to unsubscribe chat",
			logger.ErrorField(err),
			logger.Field("chat_id", chat.ID))
		return t.sender.SendMessage(ctx, chat.ID, "Something went wrong, please try again later.")
	}

	return t.sender.SendMessage(ctx, chat.ID,
		"This chat will no longer receive signals. Send /start to subscribe again.")
}

func (t *TelegramBotHandler) handleStatus(ctx context.Context, c telebot.Context) error {
	symbols := t.service.MonitorService.Symbols(ctx)
	return t.sender.SendMessage(ctx, c.Chat().ID, statusMessage(symbols), telebot.ModeHTML)
}

func welcomeMessage() string {
	return `👋 <b>Welcome to the Long Signal Bot!</b>

This chat is now subscribed to long trading signals for the monitored futures pairs.

Commands:
/status - Show monitored symbols and bot status
/stop - Unsubscribe this chat`
}

func statusMessage(symbols []string) string {
	var sb strings.Builder
	sb.WriteString("🤖 <b>Bot is running</b>\n\n")
	sb.WriteString(fmt.Sprintf("Monitoring %d pairs:\n", len(symbols)))
	sb.WriteString(strings.Join(symbols, ", "))
	return sb.String()
}

func chatTitle(chat *telebot.Chat) string {
	if chat.Title != "" {
		return chat.Title
	}
	return strings.TrimSpace(chat.FirstName + " " + chat.LastName)
}
