package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/IT-Nick/veritasbot/internal/domain/messages/repository"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"go.uber.org/zap"
)

func TestMessageService_DefaultsAndOverride(t *testing.T) {
	file := filepath.Join(t.TempDir(), "messages.yaml")
	if err := os.WriteFile(file, []byte("logout_done: \"Бувайте!\"\nsubmit_success: \"Бал: %d/%d\"\n"), 0o600); err != nil {
		t.Fatalf("Не удалось записать файл: %v", err)
	}

	repo, err := repository.NewMessageRepository(file)
	if err != nil {
		t.Fatalf("NewMessageRepository вернул ошибку: %v", err)
	}
	svc := NewMessageService(repo, zap.NewNop())
	ctx := context.Background()

	if got := svc.Text(ctx, "logout_done"); got != "Бувайте!" {
		t.Errorf("Ожидался переопределенный текст, получено %q", got)
	}
	if got := svc.Text(ctx, "submit_success", 7, 10); got != "Бал: 7/10" {
		t.Errorf("Неверная подстановка: %q", got)
	}
	if got := svc.Text(ctx, "test_saved"); got != "Тест успішно створено!" {
		t.Errorf("Встроенный текст потерян: %q", got)
	}
	if got := svc.Text(ctx, "no_such_key"); got != "no_such_key" {
		t.Errorf("Для неизвестного ключа ожидался сам ключ, получено %q", got)
	}
	if _, err := svc.GetMessageByKey(ctx, "no_such_key"); err == nil {
		t.Errorf("Ожидалась ошибка для неизвестного ключа")
	}
}

func TestMessageService_GetButtons(t *testing.T) {
	repo, err := repository.NewMessageRepository("")
	if err != nil {
		t.Fatalf("NewMessageRepository вернул ошибку: %v", err)
	}

	buttons, err := NewMessageService(repo, zap.NewNop()).GetButtons(context.Background())
	if err != nil {
		t.Fatalf("GetButtons вернул ошибку: %v", err)
	}
	for _, key := range []string{model.StartTestKey, model.FinishTestKey, model.MyTestsKey, model.SettingsKey} {
		if buttons[key] == "" {
			t.Errorf("Нет текста для кнопки %s", key)
		}
	}
}

func TestNewMessageRepository_MissingFile(t *testing.T) {
	if _, err := repository.NewMessageRepository(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("Ожидалась ошибка для отсутствующего файла")
	}
}
