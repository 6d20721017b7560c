package profile_handler

import (
	"context"
	"time"

	"github.com/IT-Nick/veritasbot/internal/app/middleware"
	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	testsService "github.com/IT-Nick/veritasbot/internal/domain/tests/service"
	"gopkg.in/telebot.v4"
)

const noValue = "—"

// ProfileHandler структура для обработки команды /me
type ProfileHandler struct {
	messageService *messageService.MessageService
	loc            *time.Location
}

// NewProfileHandler возвращает структуру обработчика
func NewProfileHandler(messageService *messageService.MessageService, loc *time.Location) *ProfileHandler {
	return &ProfileHandler{messageService: messageService, loc: loc}
}

func (h *ProfileHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	sess := middleware.Session(c)
	user, _ := sess.User()

	group := noValue
	if !user.IsTeacher() && user.GroupNumber != "" {
		group = model.Group{Code: user.GroupCode, Number: user.GroupNumber}.Label()
	}

	expiry := noValue
	if exp, ok := authService.TokenExpiry(sess.Token()); ok {
		expiry = exp.In(h.loc).Format(testsService.DisplayLayout)
	}

	return c.Send(h.messageService.Text(ctx, "profile", user.FullName(), user.Email, user.Profile, group, expiry))
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *ProfileHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
