package test_results_handler

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
	buttons, err := messages.GetButtons(context.Background())
	if err != nil {
		t.Fatalf("GetButtons вернул ошибку: %v", err)
	}

	text, markup := Render(context.Background(), messages, model.Test{ID: "7", Title: "Алгебра"}, []model.StudentResult{
		{StudentID: "11", StudentName: "Шевченко Тарас", Group: "КН-21", Score: 9, MaxScore: 10},
		{StudentName: "Невідомий студент", Group: "Без групи", Score: 0, MaxScore: 10},
	}, buttons, time.UTC)

	if !strings.Contains(text, "Алгебра") || strings.Count(text, "\n") != 2 {
		t.Errorf("Неверный текст результатов: %q", text)
	}
	if len(markup.InlineKeyboard) != 1 {
		t.Fatalf("Кнопка нужна только студенту с идентификатором, получено %d", len(markup.InlineKeyboard))
	}
	if b := markup.InlineKeyboard[0][0]; b.Data != "11|7" || b.Unique != model.ReviewKey {
		t.Errorf("Неверная кнопка просмотра: %+v", b)
	}
}
