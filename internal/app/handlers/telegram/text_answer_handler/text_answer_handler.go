package text_answer_handler

import (
	"context"
	"strings"

	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/testview"
	"github.com/IT-Nick/veritasbot/internal/app/middleware"
	"github.com/IT-Nick/veritasbot/internal/app/state"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"github.com/IT-Nick/veritasbot/internal/domain/session"
	"gopkg.in/telebot.v4"
)

// TextAnswerHandler принимает ответ на текстовый вопрос: кнопка ставит вопрос в ожидание,
// следующее текстовое сообщение чата становится ответом.
type TextAnswerHandler struct {
	registry       *session.Registry
	pending        *state.PendingAnswers
	messageService *messageService.MessageService
}

// NewTextAnswerHandler возвращает структуру обработчика
func NewTextAnswerHandler(registry *session.Registry, pending *state.PendingAnswers, messageService *messageService.MessageService) *TextAnswerHandler {
	return &TextAnswerHandler{
		registry:       registry,
		pending:        pending,
		messageService: messageService,
	}
}

// Handle обрабатывает кнопку "Ввести відповідь", данные: метка сессии|вопрос
func (h *TextAnswerHandler) Handle(c telebot.Context) error {
	ctx := context.Background()

	parts, ok := testview.SplitData(c.Data(), 2)
	if !ok {
		return nil
	}

	s, ok := testview.Active(h.registry, c.Chat().ID, parts[0])
	if ok && s.State() == session.StateViewingHistory {
		return middleware.Reply(c, h.messageService.Text(ctx, "history_read_only"))
	}
	if !ok || s.State() != session.StateInProgress {
		return middleware.Reply(c, h.messageService.Text(ctx, "no_active_session"))
	}
	if _, ok := s.Question(parts[1]); !ok {
		return nil
	}

	h.pending.Set(c.Chat().ID, s.ID(), parts[1])
	return c.Send(h.messageService.Text(ctx, "text_prompt"))
}

// HandleText обрабатывает свободный текст. Без ожидаемого вопроса сообщение игнорируется,
// незнакомые команды ответом не считаются.
func (h *TextAnswerHandler) HandleText(c telebot.Context) error {
	if c.Chat() == nil || strings.HasPrefix(c.Text(), "/") {
		return nil
	}
	ctx := context.Background()

	sessionID, questionID, ok := h.pending.Take(c.Chat().ID)
	if !ok {
		return nil
	}

	s, ok := h.registry.Get(c.Chat().ID)
	if !ok || s.ID() != sessionID {
		return c.Send(h.messageService.Text(ctx, "no_active_session"))
	}

	if err := s.SetAnswer(questionID, model.ScalarAnswer(strings.TrimSpace(c.Text()))); err != nil {
		return c.Send(h.messageService.Text(ctx, "no_active_session"))
	}
	return c.Send(h.messageService.Text(ctx, "answer_saved"))
}

// GetHandlerFunc возвращает обработчик кнопки в формате telebot.HandlerFunc
func (h *TextAnswerHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

// GetTextHandlerFunc возвращает обработчик текстовых сообщений
func (h *TextAnswerHandler) GetTextHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.HandleText(c)
	}
}
