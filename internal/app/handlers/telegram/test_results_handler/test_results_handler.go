package test_results_handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/testview"
	"github.com/IT-Nick/veritasbot/internal/app/middleware"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	resultsService "github.com/IT-Nick/veritasbot/internal/domain/results/service"
	testsService "github.com/IT-Nick/veritasbot/internal/domain/tests/service"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// TestResultsHandler показывает преподавателю результаты теста. Данные кнопки - идентификатор теста.
type TestResultsHandler struct {
	testService    *testsService.TestService
	resultService  *resultsService.ResultService
	messageService *messageService.MessageService
	loc            *time.Location
	logger         *zap.Logger
}

// NewTestResultsHandler возвращает структуру обработчика
func NewTestResultsHandler(
	testService *testsService.TestService,
	resultService *resultsService.ResultService,
	messageService *messageService.MessageService,
	loc *time.Location,
	logger *zap.Logger,
) *TestResultsHandler {
	return &TestResultsHandler{
		testService:    testService,
		resultService:  resultService,
		messageService: messageService,
		loc:            loc,
		logger:         logger,
	}
}

func (h *TestResultsHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	sess := middleware.Session(c)

	test, err := h.testService.FindTest(ctx, sess, c.Data())
	if err != nil {
		if errors.Is(err, testsService.ErrTestNotFound) {
			return middleware.Reply(c, h.messageService.Text(ctx, "test_not_found"))
		}
		h.logger.Warn("failed to find test", zap.String("test_id", c.Data()), zap.Error(err))
		return middleware.Reply(c, h.messageService.Text(ctx, "results_load_failed"))
	}

	results, err := h.resultService.TestResults(ctx, sess, test)
	if err != nil {
		h.logger.Warn("failed to load test results", zap.String("test_id", test.ID), zap.Error(err))
		return middleware.Reply(c, h.messageService.Text(ctx, "results_load_failed"))
	}
	if len(results) == 0 {
		return c.Send(h.messageService.Text(ctx, "test_results_empty"))
	}

	buttons, err := h.messageService.GetButtons(ctx)
	if err != nil {
		return middleware.Reply(c, h.messageService.Text(ctx, "error_generic"))
	}

	text, markup := Render(ctx, h.messageService, test, results, buttons, h.loc)
	if len(markup.InlineKeyboard) == 0 {
		return c.Send(text)
	}
	return c.Send(text, markup)
}

// Render таблица результатов и кнопки просмотра ответов (студент|тест) для строк с идентификатором студента
func Render(ctx context.Context, messages *messageService.MessageService, test model.Test, results []model.StudentResult, buttons map[string]string, loc *time.Location) (string, *telebot.ReplyMarkup) {
	var sb strings.Builder
	sb.WriteString(messages.Text(ctx, "test_results_header", test.Title))

	markup := &telebot.ReplyMarkup{}
	for _, r := range results {
		sb.WriteString("\n")
		sb.WriteString(messages.Text(ctx, "test_result_row",
			r.StudentName, r.Group, r.Score, r.MaxScore, testsService.FormatDisplayDate(r.CompletedAt, loc)))

		if r.StudentID == "" {
			continue
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, []telebot.InlineButton{{
			Unique: model.ReviewKey,
			Text:   buttons[model.ReviewKey] + " " + r.StudentName,
			Data:   testview.JoinData(r.StudentID, test.ID),
		}})
	}
	return sb.String(), markup
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *TestResultsHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
