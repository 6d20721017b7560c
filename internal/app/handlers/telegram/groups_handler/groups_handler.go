package groups_handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/IT-Nick/veritasbot/internal/app/middleware"
	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	testsService "github.com/IT-Nick/veritasbot/internal/domain/tests/service"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// GroupsHandler структура для обработки команды /groups. Доступна без входа,
// номер группы нужен для регистрации.
type GroupsHandler struct {
	authService    *authService.AuthService
	testService    *testsService.TestService
	messageService *messageService.MessageService
	logger         *zap.Logger
}

// NewGroupsHandler возвращает структуру обработчика
func NewGroupsHandler(authService *authService.AuthService, testService *testsService.TestService, messageService *messageService.MessageService, logger *zap.Logger) *GroupsHandler {
	return &GroupsHandler{
		authService:    authService,
		testService:    testService,
		messageService: messageService,
		logger:         logger,
	}
}

func (h *GroupsHandler) Handle(c telebot.Context) error {
	ctx := context.Background()

	token := h.authService.Session(ctx, c.Chat().ID).Token()
	groups, err := h.testService.Groups(ctx, token)
	if err != nil {
		h.logger.Warn("failed to load groups", zap.Error(err))
		return middleware.Reply(c, h.messageService.Text(ctx, "error_generic"))
	}
	if len(groups) == 0 {
		return c.Send(h.messageService.Text(ctx, "groups_empty"))
	}

	var sb strings.Builder
	sb.WriteString(h.messageService.Text(ctx, "groups_header"))
	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("\n%s: %s", g.ID, g.Label()))
	}
	return c.Send(sb.String())
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *GroupsHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
