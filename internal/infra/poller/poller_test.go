package poller

import (
	"testing"
	"time"

	"github.com/IT-Nick/veritasbot/internal/infra/config"
	"gopkg.in/telebot.v4"
)

func TestNewPoller(t *testing.T) {
	cfg := &config.Config{}
	cfg.TelegramBot.Mode = ModePolling
	cfg.TelegramBot.PollTimeout = 5 * time.Second

	p, err := NewPoller(cfg)
	if err != nil {
		t.Fatalf("NewPoller вернул ошибку: %v", err)
	}
	if lp, ok := p.(*telebot.LongPoller); !ok || lp.Timeout != 5*time.Second {
		t.Errorf("Ожидался LongPoller с таймаутом 5s, получено %#v", p)
	}

	cfg.TelegramBot.Mode = ModeWebhook
	if _, err := NewPoller(cfg); err == nil {
		t.Errorf("Webhook без адреса должен давать ошибку")
	}

	cfg.TelegramBot.WebhookURL = "https://bot.example.com/hook"
	cfg.TelegramBot.ListenAddr = ":8443"
	p, err = NewPoller(cfg)
	if err != nil {
		t.Fatalf("NewPoller вернул ошибку: %v", err)
	}
	if wh, ok := p.(*telebot.Webhook); !ok || wh.Listen != ":8443" || wh.Endpoint.PublicURL != cfg.TelegramBot.WebhookURL {
		t.Errorf("Неверный Webhook: %#v", p)
	}
}
