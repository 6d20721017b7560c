package logout_handler

import (
	"context"

	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// Logouter завершает сессию чата вместе с его состоянием
type Logouter interface {
	Logout(ctx context.Context, sess *authService.Session) error
}

// LogoutHandler структура для обработки команды /logout
type LogoutHandler struct {
	authService    *authService.AuthService
	messageService *messageService.MessageService
	logouter       Logouter
	logger         *zap.Logger
}

// NewLogoutHandler возвращает структуру обработчика
func NewLogoutHandler(authService *authService.AuthService, messageService *messageService.MessageService, logouter Logouter, logger *zap.Logger) *LogoutHandler {
	return &LogoutHandler{
		authService:    authService,
		messageService: messageService,
		logouter:       logouter,
		logger:         logger,
	}
}

func (h *LogoutHandler) Handle(c telebot.Context) error {
	ctx := context.Background()

	sess := h.authService.Session(ctx, c.Chat().ID)
	if err := h.logouter.Logout(ctx, sess); err != nil {
		h.logger.Error("failed to logout", zap.Int64("chat_id", sess.ChatID()), zap.Error(err))
		return c.Send(h.messageService.Text(ctx, "error_generic"))
	}

	return c.Send(h.messageService.Text(ctx, "logout_done"))
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *LogoutHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
