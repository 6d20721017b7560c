package answer_handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/testview"
	msgRepo "github.com/IT-Nick/veritasbot/internal/domain/messages/repository"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"github.com/IT-Nick/veritasbot/internal/domain/session"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

type fakeTelegram struct {
	mu      sync.Mutex
	methods []string
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.methods = append(f.methods, r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
	f.mu.Unlock()
	_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":10,"date":0,"chat":{"id":5,"type":"private"}}}`))
}

func (f *fakeTelegram) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.methods...)
}

func newFixture(t *testing.T) (*telebot.Bot, *fakeTelegram, *session.Registry, *session.Session, *messageService.MessageService) {
	t.Helper()
	fake := &fakeTelegram{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	bot, err := telebot.NewBot(telebot.Settings{URL: srv.URL, Token: "test", Offline: true})
	if err != nil {
		t.Fatalf("Не удалось создать бота: %v", err)
	}

	repo, err := msgRepo.NewMessageRepository("")
	if err != nil {
		t.Fatalf("NewMessageRepository вернул ошибку: %v", err)
	}

	s := session.New(
		model.Test{ID: "7", Title: "Алгебра", Duration: 10},
		[]model.Question{{
			ID:   "2",
			Type: model.QuestionMultiple,
			Text: "Оберіть парні",
			Options: []model.Option{
				{ID: "20", Text: "2"},
				{ID: "21", Text: "3"},
			},
			Points: 1,
		}},
		session.Owner{StudentID: "3", Token: "tok"}, nil, zap.NewNop(),
		session.WithTickInterval(time.Hour),
	)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start вернул ошибку: %v", err)
	}
	t.Cleanup(s.Discard)

	registry := session.NewRegistry()
	registry.Put(5, s)
	return bot, fake, registry, s, messageService.NewMessageService(repo, zap.NewNop())
}

func callback(data string) telebot.Update {
	return telebot.Update{
		ID: 1,
		Callback: &telebot.Callback{
			ID:      "cb",
			Data:    data,
			Sender:  &telebot.User{ID: 5},
			Message: &telebot.Message{ID: 10, Chat: &telebot.Chat{ID: 5, Type: telebot.ChatPrivate}},
		},
	}
}

func TestAnswerHandler_TogglesOption(t *testing.T) {
	bot, fake, registry, s, messages := newFixture(t)
	h := NewAnswerHandler(registry, messages, zap.NewNop())

	data := testview.JoinData(testview.Tag(s), "2", "20")
	if err := h.Handle(bot.NewContext(callback(data))); err != nil {
		t.Fatalf("Handle вернул ошибку: %v", err)
	}

	answer, ok := s.Answer("2")
	if !ok || !answer.Contains("20") {
		t.Errorf("Вариант 20 должен быть выбран, ответ: %+v", answer)
	}
	if calls := fake.calls(); len(calls) != 1 || calls[0] != "editMessageText" {
		t.Errorf("Ожидалась правка вопроса, вызовы: %v", calls)
	}

	if err := h.Handle(bot.NewContext(callback(data))); err != nil {
		t.Fatalf("Handle вернул ошибку: %v", err)
	}
	if answer, _ := s.Answer("2"); answer.Contains("20") {
		t.Errorf("Повторное нажатие должно снимать выбор")
	}
}

func TestAnswerHandler_StaleSession(t *testing.T) {
	bot, fake, registry, s, messages := newFixture(t)
	h := NewAnswerHandler(registry, messages, zap.NewNop())

	if err := h.Handle(bot.NewContext(callback(testview.JoinData("deadbeef", "2", "20")))); err != nil {
		t.Fatalf("Handle вернул ошибку: %v", err)
	}
	if _, ok := s.Answer("2"); ok {
		t.Errorf("Кнопка чужой сессии не должна менять ответы")
	}
	if calls := fake.calls(); len(calls) != 1 || calls[0] != "answerCallbackQuery" {
		t.Errorf("Ожидалось уведомление no_active_session, вызовы: %v", calls)
	}
}
