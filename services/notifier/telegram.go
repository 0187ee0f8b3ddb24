package notifier

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"sjsage522/pricewatcher/pkg/errors"
)

// TelegramNotifier implements Notifier using a Telegram bot sending to
// one fixed chat
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// Ensure TelegramNotifier implements Notifier
var _ Notifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier creates a notifier for the given bot token and
// chat id. The token is verified against the Telegram API, so an
// invalid credential fails here rather than on the first send.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.NewConfiguration("failed to authorize telegram bot", err)
	}

	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Send transmits text to the configured chat
func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return errors.NewNotify("telegram", "context cancelled before send", err)
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return errors.NewNotify("telegram", "failed to send message", err)
	}
	return nil
}

// Close releases the notifier. The bot API holds no long-lived
// connection for send-only use.
func (n *TelegramNotifier) Close() error {
	return nil
}
