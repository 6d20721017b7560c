package results_handler

import (
	"context"
	"strings"
	"testing"
	"time"

	msgRepo "github.com/IT-Nick/veritasbot/internal/domain/messages/repository"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"go.uber.org/zap"
)

func TestRender(t *testing.T) {
	repo, err := msgRepo.NewMessageRepository("")
	if err != nil {
		t.Fatalf("NewMessageRepository вернул ошибку: %v", err)
	}
	messages := messageService.NewMessageService(repo, zap.NewNop())

	text := Render(context.Background(), messages, []model.TestResult{
		{Title: "Алгебра", Subject: "Математика", Score: 8, MaxScore: 10, CompletedAt: "2024-03-01T10:00:00Z"},
		{Title: "Фізика", Subject: "Фізика", Score: 0, MaxScore: 5, EndTime: "bad", Unconfirmed: true},
	}, time.UTC)

	lines := strings.Split(text, "\n")
	if len(lines) != 3 {
		t.Fatalf("Ожидалось 3 строки, получено %d: %q", len(lines), text)
	}
	if !strings.Contains(lines[1], "8/10") || !strings.Contains(lines[1], "01.03.2024 10:00") {
		t.Errorf("Неверная строка результата: %q", lines[1])
	}
	if !strings.Contains(lines[2], "—") || !strings.Contains(lines[2], "не підтверджено") {
		t.Errorf("Неподтвержденный результат должен быть помечен: %q", lines[2])
	}
}

func TestAttemptMarkup(t *testing.T) {
	buttons := map[string]string{model.ViewAttemptKey: "👁 Переглянути"}

	if markup := AttemptMarkup([]model.TestResult{{Title: "Алгебра"}}, buttons); markup != nil {
		t.Errorf("Результаты сервера не открываются для просмотра: %+v", markup)
	}

	markup := AttemptMarkup([]model.TestResult{
		{Title: "Алгебра"},
		{Title: "Фізика", SessionID: "12345678-aaaa", Questions: []model.Question{{ID: "1"}}},
	}, buttons)
	if markup == nil || len(markup.InlineKeyboard) != 1 {
		t.Fatalf("Ожидалась одна кнопка просмотра: %+v", markup)
	}
	b := markup.InlineKeyboard[0][0]
	if b.Unique != model.ViewAttemptKey || b.Data != "12345678" || !strings.HasSuffix(b.Text, "Фізика") {
		t.Errorf("Неверная кнопка просмотра: %+v", b)
	}
}
