package middleware

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// Recover возвращает middleware-функцию, которая перехватывает панику, возникшую в обработчике,
// логирует ее и отвечает пользователю сообщением fallback.
func Recover(logger *zap.Logger, fallback string) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var e error
					switch x := r.(type) {
					case error:
						e = x
					case string:
						e = errors.New(x)
					default:
						e = fmt.Errorf("unknown panic: %v", x)
					}
					logger.Error("recovered from panic in handler", zap.Error(e), zap.Stack("stack"))
					if fallback != "" && c.Chat() != nil {
						_ = c.Send(fallback)
					}
					err = e
				}
			}()
			return next(c)
		}
	}
}
