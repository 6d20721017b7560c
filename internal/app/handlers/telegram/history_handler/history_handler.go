package history_handler

import (
	"context"

	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/testview"
	"github.com/IT-Nick/veritasbot/internal/app/middleware"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	resultsService "github.com/IT-Nick/veritasbot/internal/domain/results/service"
	"github.com/IT-Nick/veritasbot/internal/domain/session"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// HistoryHandler открывает выполненную в чате попытку только для просмотра.
// Данные кнопки: метка сессии попытки.
type HistoryHandler struct {
	resultService  *resultsService.ResultService
	registry       *session.Registry
	messageService *messageService.MessageService
	logger         *zap.Logger
}

// NewHistoryHandler возвращает структуру обработчика
func NewHistoryHandler(
	resultService *resultsService.ResultService,
	registry *session.Registry,
	messageService *messageService.MessageService,
	logger *zap.Logger,
) *HistoryHandler {
	return &HistoryHandler{
		resultService:  resultService,
		registry:       registry,
		messageService: messageService,
		logger:         logger,
	}
}

func (h *HistoryHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	chatID := c.Chat().ID

	result, ok := h.resultService.LocalAttempt(chatID, c.Data())
	if !ok {
		return middleware.Reply(c, h.messageService.Text(ctx, "history_not_found"))
	}

	// Идущий тест не заменяется просмотром
	if current, ok := h.registry.Get(chatID); ok {
		if state := current.State(); state == session.StateInProgress || state == session.StateSubmitting {
			return middleware.Reply(c, h.messageService.Text(ctx, "history_busy"))
		}
	}

	buttons, err := h.messageService.GetButtons(ctx)
	if err != nil {
		return middleware.Reply(c, h.messageService.Text(ctx, "error_generic"))
	}

	s := session.NewHistory(Test(result), result.Questions, result.Answers, result.Score)
	h.registry.Put(chatID, s)

	if err := c.Send(h.messageService.Text(ctx, "history_header", result.Title, result.Score, result.MaxScore)); err != nil {
		return err
	}

	tag := testview.Tag(s)
	questions := s.Questions()
	for i, q := range questions {
		answer, _ := s.Answer(q.ID)
		text := testview.QuestionText(ctx, h.messageService, i, len(questions), q, answer)
		if err := c.Send(text, testview.QuestionMarkup(tag, q, answer, buttons)); err != nil {
			return err
		}
	}

	h.logger.Debug("attempt opened for viewing",
		zap.Int64("chat_id", chatID),
		zap.String("attempt_session_id", result.SessionID),
		zap.String("test_id", result.TestID),
	)
	return nil
}

// Test восстанавливает описание теста из результата попытки
func Test(r model.TestResult) model.Test {
	return model.Test{
		ID:        r.TestID,
		Subject:   r.Subject,
		Title:     r.Title,
		Lecturer:  r.Lecturer,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		MaxScore:  r.MaxScore,
	}
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *HistoryHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
