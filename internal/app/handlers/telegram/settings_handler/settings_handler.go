package settings_handler

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/command"
	"github.com/IT-Nick/veritasbot/internal/app/middleware"
	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	settingsService "github.com/IT-Nick/veritasbot/internal/domain/settings/service"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// confirmWord подтверждение удаления аккаунта
const confirmWord = "ТАК"

// SettingsHandler настройки аккаунта: меню, /password, /deleteaccount, /export
type SettingsHandler struct {
	settingsService *settingsService.SettingsService
	messageService  *messageService.MessageService
	logger          *zap.Logger
}

// NewSettingsHandler возвращает структуру обработчика
func NewSettingsHandler(settingsService *settingsService.SettingsService, messageService *messageService.MessageService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		messageService:  messageService,
		logger:          logger,
	}
}

// HandleMenu список команд настроек
func (h *SettingsHandler) HandleMenu(c telebot.Context) error {
	return c.Send(h.messageService.Text(context.Background(), "settings_help"))
}

// HandlePassword /password старый новый новый
func (h *SettingsHandler) HandlePassword(c telebot.Context) error {
	ctx := context.Background()

	args := command.Args(c)
	if len(args) != 3 {
		return c.Send(h.messageService.Text(ctx, "password_usage"))
	}

	if err := c.Delete(); err != nil {
		h.logger.Debug("failed to delete password message", zap.Error(err))
	}

	err := h.settingsService.ChangePassword(ctx, middleware.Session(c), args[0], args[1], args[2])
	switch {
	case err == nil:
		return c.Send(settingsService.MsgPasswordChanged)
	case errors.Is(err, authService.ErrPasswordMismatch), errors.Is(err, authService.ErrPasswordShort):
		return c.Send(err.Error())
	default:
		h.logger.Warn("failed to change password", zap.Error(err))
		return c.Send(settingsService.FailureMessage(err, settingsService.MsgPasswordFailed))
	}
}

// HandleDelete /deleteaccount ТАК. Без подтверждения только предупреждает.
func (h *SettingsHandler) HandleDelete(c telebot.Context) error {
	ctx := context.Background()

	if !strings.EqualFold(command.Payload(c), confirmWord) {
		return c.Send(h.messageService.Text(ctx, "delete_confirm"))
	}

	if err := h.settingsService.DeleteAccount(ctx, middleware.Session(c)); err != nil {
		h.logger.Warn("failed to delete account", zap.Error(err))
		return c.Send(settingsService.FailureMessage(err, settingsService.MsgDeleteFailed))
	}
	return c.Send(settingsService.MsgAccountDeleted)
}

// HandleExport отправляет выгрузку результатов документом
func (h *SettingsHandler) HandleExport(c telebot.Context) error {
	ctx := context.Background()

	data, filename, err := h.settingsService.ExportResults(ctx, middleware.Session(c))
	if err != nil {
		h.logger.Warn("failed to export results", zap.Error(err))
		return c.Send(settingsService.FailureMessage(err, settingsService.MsgExportFailed))
	}

	return c.Send(&telebot.Document{
		File:     telebot.FromReader(bytes.NewReader(data)),
		FileName: filename,
		MIME:     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Caption:  h.messageService.Text(ctx, "export_caption"),
	})
}
