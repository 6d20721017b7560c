package poller

import (
	"fmt"

	"github.com/IT-Nick/veritasbot/internal/infra/config"
	"gopkg.in/telebot.v4"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// NewPoller создаёт Poller в зависимости от режима
func NewPoller(cfg *config.Config) (telebot.Poller, error) {
	bot := cfg.TelegramBot
	switch bot.Mode {
	case "", ModePolling:
		return &telebot.LongPoller{Timeout: bot.PollTimeout}, nil
	case ModeWebhook:
		if bot.WebhookURL == "" {
			return nil, fmt.Errorf("webhook mode requires telegram_bot.webhook_url")
		}
		return &telebot.Webhook{
			Listen: bot.ListenAddr,
			Endpoint: &telebot.WebhookEndpoint{
				PublicURL: bot.WebhookURL,
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown telegram_bot.mode %q", bot.Mode)
	}
}
