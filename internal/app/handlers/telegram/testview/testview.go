// Package testview собирает сообщения прохождения теста: вопрос с кнопками и таймер.
package testview

import (
	"context"
	"errors"
	"strings"

	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"github.com/IT-Nick/veritasbot/internal/domain/session"
	"github.com/IT-Nick/veritasbot/internal/infra/timer"
	"gopkg.in/telebot.v4"
)

const (
	dataSep = "|"
	checked = "✅ "
	tagLen  = 8
)

// Tag короткая метка сессии для callback-данных (лимит Telegram 64 байта)
func Tag(s *session.Session) string {
	return TagID(s.ID())
}

// TagID метка по id сессии
func TagID(id string) string {
	if len(id) > tagLen {
		return id[:tagLen]
	}
	return id
}

// Matches сообщает, что кнопка относится к этой сессии
func Matches(s *session.Session, tag string) bool {
	return tag != "" && Tag(s) == tag
}

// JoinData склеивает поля callback-данных
func JoinData(parts ...string) string {
	return strings.Join(parts, dataSep)
}

// SplitData разбирает callback-данные на n полей
func SplitData(data string, n int) ([]string, bool) {
	parts := strings.SplitN(data, dataSep, n)
	if len(parts) != n {
		return nil, false
	}
	return parts, true
}

// QuestionText текст вопроса с текущим ответом для текстовых вопросов
func QuestionText(ctx context.Context, messages *messageService.MessageService, index, total int, q model.Question, answer model.Answer) string {
	text := messages.Text(ctx, "question", index+1, total, q.Points, q.Text)
	if q.Type == model.QuestionText && answer.Value != "" {
		text += messages.Text(ctx, "question_answer", answer.Value)
	}
	return text
}

// QuestionMarkup кнопки вопроса: варианты с отметкой выбранных или кнопка ввода текста
func QuestionMarkup(tag string, q model.Question, answer model.Answer, buttons map[string]string) *telebot.ReplyMarkup {
	var rows [][]telebot.InlineButton
	if q.Type == model.QuestionText {
		rows = append(rows, []telebot.InlineButton{{
			Unique: model.TextAnswerKey,
			Text:   buttons[model.TextAnswerKey],
			Data:   JoinData(tag, q.ID),
		}})
		return &telebot.ReplyMarkup{InlineKeyboard: rows}
	}

	for _, o := range q.Options {
		text := o.Text
		if answer.Contains(o.ID) {
			text = checked + text
		}
		rows = append(rows, []telebot.InlineButton{{
			Unique: model.AnswerKey,
			Text:   text,
			Data:   JoinData(tag, q.ID, o.ID),
		}})
	}
	return &telebot.ReplyMarkup{InlineKeyboard: rows}
}

// QuestionIndex номер вопроса в сессии, -1 если его нет
func QuestionIndex(s *session.Session, questionID string) int {
	for i, q := range s.Questions() {
		if q.ID == questionID {
			return i
		}
	}
	return -1
}

// TimerText строка таймера с числом ответов
func TimerText(ctx context.Context, messages *messageService.MessageService, s *session.Session, remaining int) string {
	return messages.Text(ctx, "timer", timer.FormatRemaining(remaining), s.AnsweredCount(), len(s.Questions()))
}

// FinishMarkup кнопка завершения теста
func FinishMarkup(tag string, buttons map[string]string) *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{InlineKeyboard: [][]telebot.InlineButton{{{
		Unique: model.FinishTestKey,
		Text:   buttons[model.FinishTestKey],
		Data:   tag,
	}}}}
}

// IgnoreNotModified гасит ошибку правки сообщения без изменений
func IgnoreNotModified(err error) error {
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}

// ReadOnly сообщает, что нажатие пришло в просмотр выполненной попытки
func ReadOnly(s *session.Session, err error) bool {
	return errors.Is(err, session.ErrReadOnly) || s.State() == session.StateViewingHistory
}

// Active текущая сессия чата, если кнопка относится к ней
func Active(registry *session.Registry, chatID int64, tag string) (*session.Session, bool) {
	s, ok := registry.Get(chatID)
	if !ok || !Matches(s, tag) {
		return nil, false
	}
	return s, true
}
