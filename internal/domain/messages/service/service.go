package service

import (
	"context"
	"fmt"

	"github.com/IT-Nick/veritasbot/internal/domain/messages/repository"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"go.uber.org/zap"
)

// MessageService содержит логику для работы с сообщениями
type MessageService struct {
	messageRepo *repository.MessageRepository
	logger      *zap.Logger
}

// NewMessageService создает новый экземпляр MessageService
func NewMessageService(messageRepo *repository.MessageRepository, logger *zap.Logger) *MessageService {
	return &MessageService{messageRepo: messageRepo, logger: logger}
}

// GetMessageByKey возвращает сообщение по ключу
func (s *MessageService) GetMessageByKey(ctx context.Context, messageKey string) (string, error) {
	message, err := s.messageRepo.GetMessageByKey(ctx, messageKey)
	if err != nil {
		return "", fmt.Errorf("failed to get message by key: %w", err)
	}
	return message, nil
}

// Text возвращает сообщение, подставляя args. Если ключа нет, в чат уходит сам ключ.
func (s *MessageService) Text(ctx context.Context, messageKey string, args ...any) string {
	message, err := s.GetMessageByKey(ctx, messageKey)
	if err != nil {
		s.logger.Error("message is missing", zap.String("key", messageKey), zap.Error(err))
		return messageKey
	}
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}

// GetButtons возвращает мапу с текстами кнопок меню и теста
func (s *MessageService) GetButtons(ctx context.Context) (map[string]string, error) {
	buttons := make(map[string]string)

	for _, key := range []string{
		model.StartTestKey, model.TextAnswerKey, model.FinishTestKey, model.TestResultsKey, model.ReviewKey,
		model.MyTestsKey, model.MyResultsKey, model.AnalyticsKey, model.NewTestKey, model.SettingsKey, model.ViewAttemptKey,
	} {
		text, err := s.messageRepo.GetMessageByKey(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to get button text for key %s: %w", key, err)
		}
		buttons[key] = text
	}

	return buttons, nil
}
