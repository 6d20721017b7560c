// Package command разбирает аргументы команд бота.
package command

import (
	"strings"

	"gopkg.in/telebot.v4"
)

// Payload текст после команды, включая переводы строк. Для callback всегда пустой:
// c.Text() там возвращает текст сообщения бота.
func Payload(c telebot.Context) string {
	if c.Callback() != nil || c.Message() == nil {
		return ""
	}
	return Strip(c.Message().Text)
}

// Strip убирает первое слово (команду) и пробелы вокруг остатка
func Strip(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	i := strings.IndexAny(text, " \t\n")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i+1:])
}

// Args аргументы команды, разделенные пробелами
func Args(c telebot.Context) []string {
	return strings.Fields(Payload(c))
}
