package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Notifier defines the interface for a Telegram notifier.
type Notifier interface {
	SendMessage(text string) error
}

// client is an implementation of Notifier.
type client struct {
	bot         *tgbotapi.BotAPI
	chatID      int64
	sendLimiter *rate.Limiter
}

// NewClient creates a new Telegram notifier client. maxMessagePerMinute
// throttles outbound sends to stay under the bot API limits.
func NewClient(botToken string, chatID int64, maxMessagePerMinute int) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	if maxMessagePerMinute <= 0 {
		maxMessagePerMinute = 20
	}
	secondsPerMessage := time.Minute / time.Duration(maxMessagePerMinute)
	return &client{
		bot:         bot,
		chatID:      chatID,
		sendLimiter: rate.NewLimiter(rate.Every(secondsPerMessage), 1),
	}, nil
}

// SendMessage sends a message to the configured Telegram chat.
func (c *client) SendMessage(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.sendLimiter.Wait(ctx); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := c.bot.Send(msg)
	return err
}

// noop is used when notifications are disabled in config.
type noop struct{}

// NewNoopNotifier returns a Notifier that discards all messages.
func NewNoopNotifier() Notifier {
	return noop{}
}

func (noop) SendMessage(string) error { return nil }
