package service

import (
	"context"
	"fmt"
	"time"

	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	"github.com/IT-Nick/veritasbot/internal/domain/dto"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient/paths"
	"go.uber.org/zap"
)

const (
	MsgPasswordChanged = "Пароль успішно змінено!"
	MsgPasswordFailed  = "Помилка"
	MsgAccountDeleted  = "Акаунт видалено"
	MsgDeleteFailed    = "Помилка видалення"
	MsgExportFailed    = "Не вдалося завантажити файл"
	MsgServerDown      = "Не вдалося підключитися до сервера"
)

// Logouter завершает сессию чата после удаления аккаунта
type Logouter interface {
	Logout(ctx context.Context, sess *authService.Session) error
}

// SettingsService операции с аккаунтом: смена пароля, удаление, выгрузка результатов
type SettingsService struct {
	api    *apiclient.Client
	auth   Logouter
	logger *zap.Logger
	now    func() time.Time
}

// NewSettingsService создает новый экземпляр SettingsService
func NewSettingsService(api *apiclient.Client, auth Logouter, logger *zap.Logger) *SettingsService {
	return &SettingsService{api: api, auth: auth, logger: logger, now: time.Now}
}

// ChangePassword проверяет новый пароль локально и отправляет смену на сервер
func (s *SettingsService) ChangePassword(ctx context.Context, sess *authService.Session, oldPassword, newPassword, confirm string) error {
	if err := authService.ValidatePasswordChange(newPassword, confirm); err != nil {
		return err
	}

	var resp dto.MessageResponse
	req := dto.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}
	if err := s.api.Post(ctx, "account.password", paths.ChangePassword, sess.Token(), req, &resp); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	s.logger.Info("password changed", zap.Int64("chat_id", sess.ChatID()))
	return nil
}

// DeleteAccount удаляет аккаунт и завершает сессию чата
func (s *SettingsService) DeleteAccount(ctx context.Context, sess *authService.Session) error {
	if err := s.api.Delete(ctx, "account.delete", paths.DeleteAccount, sess.Token(), nil); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if err := s.auth.Logout(ctx, sess); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	s.logger.Info("account deleted", zap.Int64("chat_id", sess.ChatID()))
	return nil
}

// ExportResults выгружает результаты в xlsx. Имя файла:
// "результати_всіх_YYYY-MM-DD.xlsx" для преподавателя, "результати_мої_..." для студента.
func (s *SettingsService) ExportResults(ctx context.Context, sess *authService.Session) ([]byte, string, error) {
	data, _, err := s.api.Download(ctx, "account.export", paths.ExportResults, sess.Token())
	if err != nil {
		return nil, "", fmt.Errorf("failed to export results: %w", err)
	}
	return data, ExportFilename(sess.IsTeacher(), s.now()), nil
}

func ExportFilename(teacher bool, now time.Time) string {
	scope := "мої"
	if teacher {
		scope = "всіх"
	}
	return fmt.Sprintf("результати_%s_%s.xlsx", scope, now.UTC().Format("2006-01-02"))
}

// FailureMessage текст ошибки для пользователя: сообщение сервера, fallback
// при ответе без сообщения, MsgServerDown при сетевой ошибке
func FailureMessage(err error, fallback string) string {
	if apiclient.IsServerError(err) {
		return apiclient.ServerMessage(err, fallback)
	}
	return MsgServerDown
}
