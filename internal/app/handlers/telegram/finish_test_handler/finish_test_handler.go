package finish_test_handler

import (
	"context"
	"errors"

	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/testview"
	"github.com/IT-Nick/veritasbot/internal/app/middleware"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/domain/session"
	"gopkg.in/telebot.v4"
)

// FinishTestHandler структура для обработки кнопки "Завершити тест", в данных - метка сессии
type FinishTestHandler struct {
	registry       *session.Registry
	messageService *messageService.MessageService
}

// NewFinishTestHandler возвращает структуру обработчика
func NewFinishTestHandler(registry *session.Registry, messageService *messageService.MessageService) *FinishTestHandler {
	return &FinishTestHandler{registry: registry, messageService: messageService}
}

// Handle отправляет ответы. Итог показывает хук завершения сессии.
func (h *FinishTestHandler) Handle(c telebot.Context) error {
	ctx := context.Background()

	s, ok := testview.Active(h.registry, c.Chat().ID, c.Data())
	if !ok {
		return middleware.Reply(c, h.messageService.Text(ctx, "no_active_session"))
	}

	err := s.Submit(ctx)
	switch {
	case errors.Is(err, session.ErrSubmitInFlight):
		return middleware.Reply(c, h.messageService.Text(ctx, "submit_in_progress"))
	case errors.Is(err, session.ErrReadOnly):
		return middleware.Reply(c, h.messageService.Text(ctx, "history_read_only"))
	case err != nil:
		return middleware.Reply(c, h.messageService.Text(ctx, "no_active_session"))
	}
	return nil
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *FinishTestHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
