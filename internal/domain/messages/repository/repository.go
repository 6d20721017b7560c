package repository

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultMessages []byte

// MessageRepository каталог текстов бота: встроенные тексты, поверх которых
// применяется файл из конфигурации
type MessageRepository struct {
	messages map[string]string
}

// NewMessageRepository создает новый экземпляр MessageRepository. overrideFile может быть пустым.
func NewMessageRepository(overrideFile string) (*MessageRepository, error) {
	messages := make(map[string]string)
	if err := yaml.Unmarshal(defaultMessages, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode default messages: %w", err)
	}

	if overrideFile != "" {
		data, err := os.ReadFile(overrideFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read messages file: %w", err)
		}
		override := make(map[string]string)
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to decode messages file: %w", err)
		}
		for k, v := range override {
			messages[k] = v
		}
	}

	return &MessageRepository{messages: messages}, nil
}

// GetMessageByKey возвращает текст сообщения по ключу
func (r *MessageRepository) GetMessageByKey(_ context.Context, messageKey string) (string, error) {
	text, ok := r.messages[messageKey]
	if !ok {
		return "", fmt.Errorf("message with key %s not found", messageKey)
	}
	return text, nil
}
