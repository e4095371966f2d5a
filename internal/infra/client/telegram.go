package client

import (
	"context"
	"fmt"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSender is the subset of *tgbotapi.BotAPI the notifier uses.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier alerts the business owner's chat about confirmed quotes.
type TelegramNotifier struct {
	bot    TelegramSender
	chatID int64
}

// NewTelegramBot authenticates against the Bot API.
func NewTelegramBot(token, apiEndpoint string) (*tgbotapi.BotAPI, error) {
	if apiEndpoint == "" {
		apiEndpoint = tgbotapi.APIEndpoint
	}
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, apiEndpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return bot, nil
}

// NewTelegramNotifier creates a notifier bound to one chat.
func NewTelegramNotifier(bot TelegramSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

// Notify sends text to the owner chat.
func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	_, span := tracer.Start(ctx, "TelegramNotifier.Notify")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return &domain.ErrExternalService{Service: "telegram", Err: err}
	}
	return nil
}
