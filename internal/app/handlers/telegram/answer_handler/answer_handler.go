package answer_handler

import (
	"context"

	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/testview"
	"github.com/IT-Nick/veritasbot/internal/app/middleware"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/domain/session"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// AnswerHandler обрабатывает выбор варианта ответа. Данные кнопки: метка сессии|вопрос|вариант.
type AnswerHandler struct {
	registry       *session.Registry
	messageService *messageService.MessageService
	logger         *zap.Logger
}

func NewAnswerHandler(registry *session.Registry, messageService *messageService.MessageService, logger *zap.Logger) *AnswerHandler {
	return &AnswerHandler{
		registry:       registry,
		messageService: messageService,
		logger:         logger,
	}
}

func (h *AnswerHandler) Handle(c telebot.Context) error {
	ctx := context.Background()

	parts, ok := testview.SplitData(c.Data(), 3)
	if !ok {
		return nil
	}
	tag, questionID, optionID := parts[0], parts[1], parts[2]

	s, ok := testview.Active(h.registry, c.Chat().ID, tag)
	if !ok {
		return middleware.Reply(c, h.messageService.Text(ctx, "no_active_session"))
	}

	answer, err := s.ToggleOption(questionID, optionID)
	switch {
	case err != nil && s.State() == session.StateSubmitting:
		return middleware.Reply(c, h.messageService.Text(ctx, "submit_in_progress"))
	case err != nil && testview.ReadOnly(s, err):
		return middleware.Reply(c, h.messageService.Text(ctx, "history_read_only"))
	case err != nil:
		return middleware.Reply(c, h.messageService.Text(ctx, "no_active_session"))
	}

	buttons, err := h.messageService.GetButtons(ctx)
	if err != nil {
		return middleware.Reply(c, h.messageService.Text(ctx, "error_generic"))
	}

	q, _ := s.Question(questionID)
	index := testview.QuestionIndex(s, questionID)
	text := testview.QuestionText(ctx, h.messageService, index, len(s.Questions()), q, answer)
	if err := testview.IgnoreNotModified(c.Edit(text, testview.QuestionMarkup(tag, q, answer, buttons))); err != nil {
		h.logger.Warn("failed to update question", zap.String("session_id", s.ID()), zap.Error(err))
	}
	return nil
}

func (h *AnswerHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
