package tests_handler

import (
	"context"
	"time"

	"github.com/IT-Nick/veritasbot/internal/app/middleware"
	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"github.com/IT-Nick/veritasbot/internal/domain/session"
	testsService "github.com/IT-Nick/veritasbot/internal/domain/tests/service"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// TestsHandler структура для обработки команды /tests и кнопки "Мои тесты"
type TestsHandler struct {
	testService    *testsService.TestService
	messageService *messageService.MessageService
	loc            *time.Location
	now            func() time.Time
	logger         *zap.Logger
}

// NewTestsHandler возвращает структуру обработчика
func NewTestsHandler(testService *testsService.TestService, messageService *messageService.MessageService, loc *time.Location, logger *zap.Logger) *TestsHandler {
	return &TestsHandler{
		testService:    testService,
		messageService: messageService,
		loc:            loc,
		now:            time.Now,
		logger:         logger,
	}
}

// Handle отправляет карточку на каждый тест. Студент видит кнопку запуска или статус,
// преподаватель - кнопку результатов.
func (h *TestsHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	sess := middleware.Session(c)

	tests, err := h.testService.LoadTests(ctx, sess)
	if err != nil {
		h.logger.Warn("failed to load tests", zap.Int64("chat_id", sess.ChatID()), zap.Error(err))
		return middleware.Reply(c, session.FailureMessage(err))
	}
	if len(tests) == 0 {
		return c.Send(h.messageService.Text(ctx, "tests_empty"))
	}

	buttons, err := h.messageService.GetButtons(ctx)
	if err != nil {
		return middleware.Reply(c, h.messageService.Text(ctx, "error_generic"))
	}

	if err := c.Send(h.messageService.Text(ctx, "tests_header")); err != nil {
		return err
	}
	for _, test := range tests {
		text, markup := h.card(ctx, sess, test, buttons)
		var opts []interface{}
		if markup != nil {
			opts = append(opts, markup)
		}
		if err := c.Send(text, opts...); err != nil {
			return err
		}
	}
	return nil
}

func (h *TestsHandler) card(ctx context.Context, sess *authService.Session, test model.Test, buttons map[string]string) (string, *telebot.ReplyMarkup) {
	text := h.messageService.Text(ctx, "test_card",
		test.Title,
		test.Subject,
		test.Lecturer,
		testsService.FormatDisplayDate(test.StartTime, h.loc),
		testsService.FormatDisplayDate(test.EndTime, h.loc),
		test.Duration,
		test.MaxScore,
	)
	if sess.IsTeacher() {
		return text, button(model.TestResultsKey, buttons, test.ID)
	}

	submitted, err := h.testService.CheckSubmitted(ctx, sess, test.ID)
	if err != nil {
		h.logger.Warn("failed to check submission", zap.String("test_id", test.ID), zap.Error(err))
	}

	availability := testsService.TestAvailability(test, h.now(), submitted)
	if availability != testsService.AvailabilityAvailable {
		return text + "\n\n" + h.messageService.Text(ctx, StatusKey(availability)), nil
	}
	return text, button(model.StartTestKey, buttons, test.ID)
}

func button(key string, buttons map[string]string, data string) *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{InlineKeyboard: [][]telebot.InlineButton{{{
		Unique: key,
		Text:   buttons[key],
		Data:   data,
	}}}}
}

// StatusKey ключ сообщения со статусом недоступного теста
func StatusKey(a testsService.Availability) string {
	return "test_status_" + string(a)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *TestsHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
