package review_handler

import (
	"bytes"
	"context"

	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/testview"
	"github.com/IT-Nick/veritasbot/internal/app/middleware"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	resultsService "github.com/IT-Nick/veritasbot/internal/domain/results/service"
	testsService "github.com/IT-Nick/veritasbot/internal/domain/tests/service"
	"github.com/IT-Nick/veritasbot/internal/infra/report"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// лимит Telegram 4096 символов на сообщение
const maxMessageRunes = 4000

// ReviewHandler отправляет преподавателю ответы студента PDF-файлом или текстом.
// Данные кнопки: студент|тест.
type ReviewHandler struct {
	testService    *testsService.TestService
	resultService  *resultsService.ResultService
	messageService *messageService.MessageService
	generator      *report.Generator
	logger         *zap.Logger
}

// NewReviewHandler возвращает структуру обработчика
func NewReviewHandler(
	testService *testsService.TestService,
	resultService *resultsService.ResultService,
	messageService *messageService.MessageService,
	generator *report.Generator,
	logger *zap.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		testService:    testService,
		resultService:  resultService,
		messageService: messageService,
		generator:      generator,
		logger:         logger,
	}
}

func (h *ReviewHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	sess := middleware.Session(c)

	parts, ok := testview.SplitData(c.Data(), 2)
	if !ok || parts[0] == "" {
		return middleware.Reply(c, h.messageService.Text(ctx, "review_no_student"))
	}
	studentID, testID := parts[0], parts[1]

	test, err := h.testService.FindTest(ctx, sess, testID)
	if err != nil {
		h.logger.Warn("failed to find test for review", zap.String("test_id", testID), zap.Error(err))
		return middleware.Reply(c, h.messageService.Text(ctx, "review_failed"))
	}

	answers, err := h.resultService.StudentReview(ctx, sess, studentID, testID)
	if err != nil {
		h.logger.Warn("failed to load review",
			zap.String("student_id", studentID),
			zap.String("test_id", testID),
			zap.Error(err),
		)
		return middleware.Reply(c, h.messageService.Text(ctx, "review_failed"))
	}

	data := report.ReviewData{
		StudentID: studentID,
		TestTitle: test.Title,
		Subject:   test.Subject,
		MaxScore:  test.MaxScore,
		Answers:   answers,
	}

	// Имя, группа и балл есть только в таблице результатов теста
	if results, err := h.resultService.TestResults(ctx, sess, test); err == nil {
		for _, r := range results {
			if r.StudentID == studentID {
				data.StudentName, data.Group = r.StudentName, r.Group
				data.Score, data.MaxScore = r.Score, r.MaxScore
				break
			}
		}
	}

	pdf, filename, err := h.generator.GenerateReview(data)
	if err != nil {
		h.logger.Warn("failed to render review pdf, sending text", zap.Error(err))
		return c.Send(truncate(report.Text(data), maxMessageRunes))
	}

	return c.Send(&telebot.Document{
		File:     telebot.FromReader(bytes.NewReader(pdf)),
		FileName: filename,
		Caption:  h.messageService.Text(ctx, "review_caption", data.StudentName),
	})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *ReviewHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}
