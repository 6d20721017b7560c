package register_handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/command"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/login_handler"
	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

const teacherArg = "teacher"

// RegisterHandler структура для обработки команды
// /register email пароль пароль Фамилия Имя номер_группы|teacher
type RegisterHandler struct {
	authService    *authService.AuthService
	messageService *messageService.MessageService
	menu           login_handler.MenuSender
	logger         *zap.Logger
}

// NewRegisterHandler возвращает структуру обработчика
func NewRegisterHandler(authService *authService.AuthService, messageService *messageService.MessageService, menu login_handler.MenuSender, logger *zap.Logger) *RegisterHandler {
	return &RegisterHandler{
		authService:    authService,
		messageService: messageService,
		menu:           menu,
		logger:         logger,
	}
}

func (h *RegisterHandler) Handle(c telebot.Context) error {
	ctx := context.Background()

	form, ok := ParseForm(command.Args(c))
	if !ok {
		return c.Send(h.messageService.Text(ctx, "register_usage"))
	}

	if err := c.Delete(); err != nil {
		h.logger.Debug("failed to delete register message", zap.Error(err))
	}

	sess := h.authService.Session(ctx, c.Chat().ID)
	if err := h.authService.Register(ctx, sess, form); err != nil {
		return c.Send(login_handler.AuthErrorText(ctx, h.messageService, err))
	}

	user, _ := sess.User()
	return h.menu.SendMenu(ctx, c, h.messageService.Text(ctx, "register_success", user.FullName()), sess)
}

// ParseForm собирает форму регистрации из аргументов команды
func ParseForm(args []string) (authService.RegisterForm, bool) {
	if len(args) < 6 {
		return authService.RegisterForm{}, false
	}

	form := authService.RegisterForm{
		Email:           args[0],
		Password:        args[1],
		ConfirmPassword: args[2],
		UserName:        args[3] + " " + args[4],
	}
	if strings.EqualFold(args[5], teacherArg) {
		form.Teacher = true
		return form, true
	}
	groupID, err := strconv.Atoi(args[5])
	if err != nil || groupID <= 0 {
		return authService.RegisterForm{}, false
	}
	form.GroupID = groupID
	return form, true
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *RegisterHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
