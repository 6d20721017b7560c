package create_test_handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/command"
	"github.com/IT-Nick/veritasbot/internal/app/middleware"
	authoringService "github.com/IT-Nick/veritasbot/internal/domain/authoring/service"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// CreateTestHandler команды создания теста преподавателем:
// /newtest, /q, /rmq, /draft, /savetest, /canceltest
type CreateTestHandler struct {
	authoringService *authoringService.AuthoringService
	messageService   *messageService.MessageService
	logger           *zap.Logger
}

// NewCreateTestHandler возвращает структуру обработчика
func NewCreateTestHandler(authoringService *authoringService.AuthoringService, messageService *messageService.MessageService, logger *zap.Logger) *CreateTestHandler {
	return &CreateTestHandler{
		authoringService: authoringService,
		messageService:   messageService,
		logger:           logger,
	}
}

// HandleNew начинает новую форму. Без аргументов (и для кнопки меню) показывает формат.
func (h *CreateTestHandler) HandleNew(c telebot.Context) error {
	ctx := context.Background()
	chatID := c.Chat().ID

	payload := command.Payload(c)
	if payload == "" {
		return c.Send(h.messageService.Text(ctx, "newtest_usage"))
	}

	h.authoringService.Begin(chatID)
	var title string
	err := h.authoringService.With(chatID, func(f *authoringService.Form) error {
		if err := authoringService.ParseHeader(payload, f); err != nil {
			return err
		}
		title = f.Title
		return nil
	})
	if err != nil {
		h.authoringService.Cancel(chatID)
		return c.Send(h.messageService.Text(ctx, "newtest_usage"))
	}

	return c.Send(h.messageService.Text(ctx, "newtest_started", title))
}

// HandleQuestion добавляет вопрос из многострочного текста команды /q
func (h *CreateTestHandler) HandleQuestion(c telebot.Context) error {
	ctx := context.Background()

	draft, err := authoringService.ParseDraft(command.Payload(c))
	if err != nil {
		return c.Send(h.messageService.Text(ctx, "newtest_usage"))
	}

	var count, total int
	err = h.authoringService.With(c.Chat().ID, func(f *authoringService.Form) error {
		if _, err := f.AddQuestion(draft); err != nil {
			return err
		}
		count, total = len(f.Questions), f.TotalPoints()
		return nil
	})
	if err != nil {
		return c.Send(h.errorText(ctx, err))
	}

	return c.Send(h.messageService.Text(ctx, "question_added", count, total))
}

// HandleRemove удаляет вопрос по номеру из /draft
func (h *CreateTestHandler) HandleRemove(c telebot.Context) error {
	ctx := context.Background()

	n, err := strconv.Atoi(command.Payload(c))
	if err != nil {
		return c.Send(h.messageService.Text(ctx, "newtest_usage"))
	}

	removed := false
	err = h.authoringService.With(c.Chat().ID, func(f *authoringService.Form) error {
		if n < 1 || n > len(f.Questions) {
			return nil
		}
		removed = f.RemoveQuestion(f.Questions[n-1].ID)
		return nil
	})
	if err != nil {
		return c.Send(h.errorText(ctx, err))
	}
	if !removed {
		return c.Send(h.messageService.Text(ctx, "newtest_usage"))
	}
	return c.Send(h.messageService.Text(ctx, "question_removed"))
}

// HandleDraft показывает собранный тест
func (h *CreateTestHandler) HandleDraft(c telebot.Context) error {
	ctx := context.Background()

	var text string
	err := h.authoringService.With(c.Chat().ID, func(f *authoringService.Form) error {
		text = RenderDraft(ctx, h.messageService, f)
		return nil
	})
	if err != nil {
		return c.Send(h.errorText(ctx, err))
	}
	return c.Send(text)
}

// HandleSave сохраняет тест на сервере. Несовпадение баллов не мешает сохранению.
func (h *CreateTestHandler) HandleSave(c telebot.Context) error {
	ctx := context.Background()
	sess := middleware.Session(c)

	var warning string
	_ = h.authoringService.With(sess.ChatID(), func(f *authoringService.Form) error {
		if f.ScoreMismatch() {
			warning = h.messageService.Text(ctx, "score_mismatch", f.MaxScore, f.TotalPoints())
		}
		return nil
	})

	if err := h.authoringService.Save(ctx, sess); err != nil {
		if !errors.Is(err, authoringService.ErrNoForm) && authoringService.Message(err) == "" {
			h.logger.Warn("failed to save test", zap.Int64("chat_id", sess.ChatID()), zap.Error(err))
		}
		return c.Send(h.errorText(ctx, err))
	}

	text := h.messageService.Text(ctx, "test_saved")
	if warning != "" {
		text = warning + "\n" + text
	}
	return c.Send(text)
}

// HandleCancel отбрасывает форму
func (h *CreateTestHandler) HandleCancel(c telebot.Context) error {
	ctx := context.Background()
	if !h.authoringService.Cancel(c.Chat().ID) {
		return c.Send(h.messageService.Text(ctx, "newtest_no_form"))
	}
	return c.Send(h.messageService.Text(ctx, "test_canceled"))
}

func (h *CreateTestHandler) errorText(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, authoringService.ErrNoForm):
		return h.messageService.Text(ctx, "newtest_no_form")
	case authoringService.Message(err) != "":
		return authoringService.Message(err)
	case apiclient.IsServerError(err):
		return apiclient.ServerMessage(err, authoringService.MsgSaveFailed)
	default:
		return authoringService.MsgSaveFailed
	}
}

// RenderDraft текст формы: параметры, вопросы с вариантами (+ правильный) и предупреждение о баллах
func RenderDraft(ctx context.Context, messages *messageService.MessageService, f *authoringService.Form) string {
	groups := make([]string, 0, len(f.GroupIDs))
	for _, id := range f.GroupIDs {
		groups = append(groups, strconv.Itoa(id))
	}
	groupList := strings.Join(groups, ", ")
	if groupList == "" {
		groupList = "—"
	}

	var sb strings.Builder
	sb.WriteString(messages.Text(ctx, "draft",
		f.Subject, f.Title, f.TimeLimit, f.MaxScore, groupList,
		f.StartDate, f.StartTime, f.EndDate, f.EndTime,
		len(f.Questions), f.TotalPoints(),
	))

	for i, q := range f.Questions {
		sb.WriteString("\n\n")
		sb.WriteString(messages.Text(ctx, "draft_question", i+1, q.Type, q.Points, q.Prompt))

		correct := make(map[string]struct{}, len(q.Correct))
		for _, c := range q.Correct {
			correct[c] = struct{}{}
		}
		if len(q.Options) == 0 {
			sb.WriteString(fmt.Sprintf("\n  + %s", strings.Join(q.Correct, ", ")))
			continue
		}
		for _, o := range q.Options {
			mark := "-"
			if _, ok := correct[o]; ok {
				mark = "+"
			}
			sb.WriteString(fmt.Sprintf("\n  %s %s", mark, o))
		}
	}

	if f.ScoreMismatch() {
		sb.WriteString("\n\n")
		sb.WriteString(messages.Text(ctx, "score_mismatch", f.MaxScore, f.TotalPoints()))
	}
	return sb.String()
}
