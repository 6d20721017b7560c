package start_test_handler

import (
	"context"
	"errors"
	"time"

	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/testview"
	"github.com/IT-Nick/veritasbot/internal/app/middleware"
	"github.com/IT-Nick/veritasbot/internal/app/state"
	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	resultsService "github.com/IT-Nick/veritasbot/internal/domain/results/service"
	"github.com/IT-Nick/veritasbot/internal/domain/session"
	testsService "github.com/IT-Nick/veritasbot/internal/domain/tests/service"
	"github.com/IT-Nick/veritasbot/internal/infra/timer"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// Sender часть telebot.Bot для отправки итогов вне обработчика
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// StartTestHandler структура для обработки нажатия кнопки "Почати тест"
type StartTestHandler struct {
	testService    *testsService.TestService
	resultService  *resultsService.ResultService
	messageService *messageService.MessageService
	registry       *session.Registry
	submitter      session.Submitter
	pending        *state.PendingAnswers
	updater        *timer.Updater
	sender         Sender
	now            func() time.Time
	logger         *zap.Logger
}

// NewStartTestHandler возвращает новый экземпляр обработчика
func NewStartTestHandler(
	testService *testsService.TestService,
	resultService *resultsService.ResultService,
	messageService *messageService.MessageService,
	registry *session.Registry,
	submitter session.Submitter,
	pending *state.PendingAnswers,
	updater *timer.Updater,
	sender Sender,
	logger *zap.Logger,
) *StartTestHandler {
	return &StartTestHandler{
		testService:    testService,
		resultService:  resultService,
		messageService: messageService,
		registry:       registry,
		submitter:      submitter,
		pending:        pending,
		updater:        updater,
		sender:         sender,
		now:            time.Now,
		logger:         logger,
	}
}

// Handle обрабатывает callback от кнопки "Почати тест", в данных - идентификатор теста
func (h *StartTestHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	sess := middleware.Session(c)
	testID := c.Data()

	test, err := h.testService.FindTest(ctx, sess, testID)
	if err != nil {
		if errors.Is(err, testsService.ErrTestNotFound) {
			return middleware.Reply(c, h.messageService.Text(ctx, "test_not_found"))
		}
		h.logger.Warn("failed to find test", zap.String("test_id", testID), zap.Error(err))
		return middleware.Reply(c, session.FailureMessage(err))
	}

	submitted, err := h.testService.CheckSubmitted(ctx, sess, test.ID)
	if err != nil {
		h.logger.Warn("failed to check submission", zap.String("test_id", test.ID), zap.Error(err))
	}
	if a := testsService.TestAvailability(test, h.now(), submitted); a != testsService.AvailabilityAvailable {
		return middleware.Reply(c, h.messageService.Text(ctx, "test_status_"+string(a)))
	}

	questions, err := h.testService.LoadQuestions(ctx, sess, test.ID)
	if err != nil {
		h.logger.Warn("failed to load questions", zap.String("test_id", test.ID), zap.Error(err))
		return middleware.Reply(c, session.FailureMessage(err))
	}
	if len(questions) == 0 {
		return middleware.Reply(c, h.messageService.Text(ctx, "test_no_questions"))
	}

	buttons, err := h.messageService.GetButtons(ctx)
	if err != nil {
		return middleware.Reply(c, h.messageService.Text(ctx, "error_generic"))
	}

	return h.run(ctx, c, sess, test, questions, buttons)
}

// run создает сессию, отправляет вопросы и сообщение с таймером, затем запускает отсчет
func (h *StartTestHandler) run(ctx context.Context, c telebot.Context, sess *authService.Session, test model.Test, questions []model.Question, buttons map[string]string) error {
	chat := c.Chat()
	user, _ := sess.User()

	// timerMsg заполняется до Start, хуки читают его только после запуска отсчета
	var timerMsg *telebot.Message

	hooks := session.Hooks{
		OnTick: func(s *session.Session, remaining int) {
			if s.State() != session.StateInProgress {
				return
			}
			h.updater.UpdateTimer(timerMsg, testview.TimerText(ctx, h.messageService, s, remaining))
		},
		OnComplete: func(s *session.Session, o session.Outcome) {
			h.complete(ctx, chat, timerMsg, s, o)
		},
		// Сессия заменена новой или чат вышел из аккаунта
		OnDiscard: func(*session.Session) {
			h.updater.Forget(chat.ID)
		},
	}

	s := session.New(test, questions, session.Owner{
		StudentID:    user.ID,
		Token:        sess.Token(),
		StudentName:  user.FullName(),
		StudentGroup: model.Group{Code: user.GroupCode, Number: user.GroupNumber}.Label(),
	}, h.submitter, h.logger, session.WithHooks(hooks))

	// Предыдущая сессия чата отбрасывается вместе с ожидаемым текстовым ответом
	h.registry.Put(chat.ID, s)
	h.pending.Clear(chat.ID)

	if err := c.Send(h.messageService.Text(ctx, "test_started", test.Title, test.Duration)); err != nil {
		h.registry.Remove(chat.ID, s)
		return err
	}

	tag := testview.Tag(s)
	for i, q := range questions {
		text := testview.QuestionText(ctx, h.messageService, i, len(questions), q, model.Answer{})
		if err := c.Send(text, testview.QuestionMarkup(tag, q, model.Answer{}, buttons)); err != nil {
			h.registry.Remove(chat.ID, s)
			return err
		}
	}

	msg, err := h.sender.Send(chat, testview.TimerText(ctx, h.messageService, s, test.Duration*60), testview.FinishMarkup(tag, buttons))
	if err != nil {
		h.registry.Remove(chat.ID, s)
		return err
	}
	timerMsg = msg

	if err := s.Start(ctx); err != nil {
		h.registry.Remove(chat.ID, s)
		return err
	}

	h.logger.Info("test started",
		zap.Int64("chat_id", chat.ID),
		zap.String("session_id", s.ID()),
		zap.String("test_id", test.ID),
		zap.Int("questions", len(questions)),
	)
	return nil
}

// complete показывает итог, сохраняет локальный результат и снимает сессию с чата
func (h *StartTestHandler) complete(ctx context.Context, chat *telebot.Chat, timerMsg *telebot.Message, s *session.Session, o session.Outcome) {
	h.updater.Finish(timerMsg, h.messageService.Text(ctx, "timer_finished"))

	text := h.messageService.Text(ctx, "submit_success", o.Score, o.MaxScore)
	if o.Err != nil {
		text = h.messageService.Text(ctx, "submit_failed", session.FailureMessage(o.Err), o.MaxScore)
	}
	if o.Auto {
		text = h.messageService.Text(ctx, "submit_timeout") + "\n" + text
	}
	if _, err := h.sender.Send(chat, text); err != nil {
		h.logger.Warn("failed to send test outcome", zap.Int64("chat_id", chat.ID), zap.Error(err))
	}

	h.resultService.AddLocal(chat.ID, o.Result)
	h.registry.Remove(chat.ID, s)
	h.pending.ClearSession(chat.ID, s.ID())
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartTestHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
