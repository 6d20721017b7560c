package start_handler

import (
	"context"

	"github.com/IT-Nick/veritasbot/internal/app/middleware"
	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	rolesService "github.com/IT-Nick/veritasbot/internal/domain/roles/service"
	"gopkg.in/telebot.v4"
)

// StartHandler структура для обработки команды /start
type StartHandler struct {
	authService    *authService.AuthService
	messageService *messageService.MessageService
	roleService    *rolesService.RoleService
}

// NewStartHandler возвращает структуру обработчика
func NewStartHandler(
	authService *authService.AuthService,
	messageService *messageService.MessageService,
	roleService *rolesService.RoleService,
) *StartHandler {
	return &StartHandler{
		authService:    authService,
		messageService: messageService,
		roleService:    roleService,
	}
}

// Handle приветствует пользователя. Авторизованный чат получает меню по своей роли.
func (h *StartHandler) Handle(c telebot.Context) error {
	if c.Chat() == nil {
		return nil
	}
	ctx := context.Background()

	sess := h.authService.Session(ctx, c.Chat().ID)
	user, ok := sess.User()
	if !ok || !sess.IsAuthenticated() {
		return c.Send(h.messageService.Text(ctx, "welcome"))
	}

	return h.SendMenu(ctx, c, h.messageService.Text(ctx, "welcome_user", user.FullName()), sess)
}

// SendMenu отправляет текст с клавиатурой главного меню
func (h *StartHandler) SendMenu(ctx context.Context, c telebot.Context, text string, sess *authService.Session) error {
	user, _ := sess.User()

	// Получаем мапу с кнопками для пользователя
	buttonsMessages, err := h.messageService.GetButtons(ctx)
	if err != nil {
		return middleware.Reply(c, h.messageService.Text(ctx, "error_generic"))
	}

	// Генерация клавиатуры в зависимости от прав
	keyboard, err := h.roleService.GetRoleBasedKeyboard(ctx, user.Role, buttonsMessages)
	if err != nil {
		return middleware.Reply(c, h.messageService.Text(ctx, "error_generic"))
	}

	return c.Send(text, &telebot.ReplyMarkup{InlineKeyboard: keyboard})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
