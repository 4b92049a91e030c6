package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"daily-uplift-bot/internal/domain"
	"daily-uplift-bot/internal/infra/metrics"
)

// Notifier рассылает сообщение дня в Telegram-чат через Bot API.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    zerolog.Logger
}

var _ domain.Notifier = (*Notifier)(nil)

// NewNotifier создаёт рассыльщика.
func NewNotifier(token string, chatID int64, logger zerolog.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: создание бота: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID, log: logger}, nil
}

// Broadcast отправляет текст, разбивая его по лимиту Telegram.
func (n *Notifier) Broadcast(ctx context.Context, text string) error {
	for _, chunk := range SplitMessage(text) {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		_, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, chunk))
		metrics.ObserveNetworkRequest("telegram", "send_message", "broadcast", start, err)
		if err != nil {
			return fmt.Errorf("telegram: отправка сообщения: %w", err)
		}
	}
	n.log.Info().Int64("chat_id", n.chatID).Msg("telegram: сообщение дня разослано")
	return nil
}
