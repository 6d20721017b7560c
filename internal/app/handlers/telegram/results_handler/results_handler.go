package results_handler

import (
	"context"
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

// ResultsHandler структура для обработки команды /results и кнопки "Мої результати"
type ResultsHandler struct {
	resultService  *resultsService.ResultService
	messageService *messageService.MessageService
	loc            *time.Location
	logger         *zap.Logger
}

// NewResultsHandler возвращает структуру обработчика
func NewResultsHandler(resultService *resultsService.ResultService, messageService *messageService.MessageService, loc *time.Location, logger *zap.Logger) *ResultsHandler {
	return &ResultsHandler{
		resultService:  resultService,
		messageService: messageService,
		loc:            loc,
		logger:         logger,
	}
}

func (h *ResultsHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	sess := middleware.Session(c)

	results, err := h.resultService.MyResults(ctx, sess)
	if err != nil {
		h.logger.Warn("failed to load results", zap.Int64("chat_id", sess.ChatID()), zap.Error(err))
		return middleware.Reply(c, h.messageService.Text(ctx, "results_load_failed"))
	}
	if len(results) == 0 {
		return c.Send(h.messageService.Text(ctx, "results_empty"))
	}

	text := Render(ctx, h.messageService, results, h.loc)
	buttons, err := h.messageService.GetButtons(ctx)
	if err != nil {
		h.logger.Warn("failed to load buttons", zap.Error(err))
		return c.Send(text)
	}
	if markup := AttemptMarkup(results, buttons); markup != nil {
		return c.Send(text, markup)
	}
	return c.Send(text)
}

// AttemptMarkup кнопки просмотра попыток, пройденных в этом чате. nil, если таких нет.
func AttemptMarkup(results []model.TestResult, buttons map[string]string) *telebot.ReplyMarkup {
	var rows [][]telebot.InlineButton
	for _, r := range results {
		if !r.HasAttempt() {
			continue
		}
		rows = append(rows, []telebot.InlineButton{{
			Unique: model.ViewAttemptKey,
			Text:   buttons[model.ViewAttemptKey] + ": " + r.Title,
			Data:   testview.TagID(r.SessionID),
		}})
	}
	if len(rows) == 0 {
		return nil
	}
	return &telebot.ReplyMarkup{InlineKeyboard: rows}
}

// Render список результатов одним сообщением
func Render(ctx context.Context, messages *messageService.MessageService, results []model.TestResult, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString(messages.Text(ctx, "results_header"))
	for _, r := range results {
		completed := r.CompletedAt
		if completed == "" {
			completed = r.EndTime
		}
		sb.WriteString("\n")
		sb.WriteString(messages.Text(ctx, "result_card",
			r.Title, r.Subject, r.Score, r.MaxScore, testsService.FormatDisplayDate(completed, loc)))
		if r.Unconfirmed {
			sb.WriteString(messages.Text(ctx, "result_unconfirmed"))
		}
	}
	return sb.String()
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *ResultsHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
