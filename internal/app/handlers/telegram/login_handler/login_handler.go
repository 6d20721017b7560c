package login_handler

import (
	"context"
	"errors"

	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/command"
	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// MenuSender отправляет главное меню после входа
type MenuSender interface {
	SendMenu(ctx context.Context, c telebot.Context, text string, sess *authService.Session) error
}

// LoginHandler структура для обработки команды /login email пароль
type LoginHandler struct {
	authService    *authService.AuthService
	messageService *messageService.MessageService
	menu           MenuSender
	logger         *zap.Logger
}

// NewLoginHandler возвращает структуру обработчика
func NewLoginHandler(authService *authService.AuthService, messageService *messageService.MessageService, menu MenuSender, logger *zap.Logger) *LoginHandler {
	return &LoginHandler{
		authService:    authService,
		messageService: messageService,
		menu:           menu,
		logger:         logger,
	}
}

func (h *LoginHandler) Handle(c telebot.Context) error {
	ctx := context.Background()

	args := command.Args(c)
	if len(args) < 2 {
		return c.Send(h.messageService.Text(ctx, "login_usage"))
	}

	// В сообщении пароль, удаляем его из чата
	if err := c.Delete(); err != nil {
		h.logger.Debug("failed to delete login message", zap.Error(err))
	}

	sess := h.authService.Session(ctx, c.Chat().ID)
	if err := h.authService.Login(ctx, sess, args[0], args[1]); err != nil {
		return c.Send(AuthErrorText(ctx, h.messageService, err))
	}

	user, _ := sess.User()
	return h.menu.SendMenu(ctx, c, h.messageService.Text(ctx, "login_success", user.FullName(), user.Profile), sess)
}

// AuthErrorText сообщение ошибки входа или регистрации для пользователя
func AuthErrorText(ctx context.Context, messages *messageService.MessageService, err error) string {
	var authErr *model.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return messages.Text(ctx, "error_generic")
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *LoginHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
