package middleware

import (
	"time"

	"github.com/IT-Nick/veritasbot/internal/infra/metrics"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// Logger возвращает middleware, которое логирует входящие обновления Telegram и
// считает их по типам. Текст сообщений не пишется, в нем бывают пароли.
func Logger(logger *zap.Logger) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			kind := UpdateKind(c)
			metrics.BotUpdates.WithLabelValues(kind).Inc()

			fields := []zap.Field{
				zap.Int("update_id", c.Update().ID),
				zap.String("kind", kind),
			}
			if chat := c.Chat(); chat != nil {
				fields = append(fields, zap.Int64("chat_id", chat.ID))
			}
			if cb := c.Callback(); cb != nil {
				fields = append(fields, zap.String("unique", cb.Unique))
			}

			start := time.Now()
			err := next(c)
			fields = append(fields, zap.Duration("took", time.Since(start)))
			if err != nil {
				logger.Warn("update handled with error", append(fields, zap.Error(err))...)
				return err
			}
			logger.Debug("update handled", fields...)
			return nil
		}
	}
}

// UpdateKind тип обновления: command, text, callback или other
func UpdateKind(c telebot.Context) string {
	switch {
	case c.Callback() != nil:
		return "callback"
	case c.Message() != nil && len(c.Message().Text) > 0 && c.Message().Text[0] == '/':
		return "command"
	case c.Message() != nil:
		return "text"
	default:
		return "other"
	}
}
