package history_handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/answer_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/finish_test_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/testview"
	msgRepo "github.com/IT-Nick/veritasbot/internal/domain/messages/repository"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	resultsService "github.com/IT-Nick/veritasbot/internal/domain/results/service"
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

func (f *fakeTelegram) reset() {
	f.mu.Lock()
	f.methods = nil
	f.mu.Unlock()
}

type fixture struct {
	bot      *telebot.Bot
	fake     *fakeTelegram
	registry *session.Registry
	results  *resultsService.ResultService
	messages *messageService.MessageService
}

func newFixture(t *testing.T) fixture {
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

	results := resultsService.NewResultService(nil, zap.NewNop())
	results.AddLocal(5, model.TestResult{
		ID:        "result-12345678-aaaa",
		TestID:    "7",
		Title:     "Алгебра",
		Score:     1,
		MaxScore:  2,
		SessionID: "12345678-aaaa",
		Questions: []model.Question{
			{ID: "2", Type: model.QuestionMultiple, Text: "Оберіть парні", Points: 1,
				Options: []model.Option{{ID: "20", Text: "2"}, {ID: "21", Text: "3"}}},
			{ID: "3", Type: model.QuestionText, Text: "Столиця?", Points: 1},
		},
		Answers: map[string]model.Answer{
			"2": model.ListAnswer([]string{"20"}),
			"3": model.ScalarAnswer("Київ"),
		},
	})

	return fixture{
		bot:      bot,
		fake:     fake,
		registry: session.NewRegistry(),
		results:  results,
		messages: messageService.NewMessageService(repo, zap.NewNop()),
	}
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

func TestHistoryHandler_ReplaysAttemptReadOnly(t *testing.T) {
	f := newFixture(t)
	h := NewHistoryHandler(f.results, f.registry, f.messages, zap.NewNop())

	if err := h.Handle(f.bot.NewContext(callback("12345678"))); err != nil {
		t.Fatalf("Handle вернул ошибку: %v", err)
	}
	if calls := f.fake.calls(); len(calls) != 3 {
		t.Errorf("Ожидались заголовок и два вопроса, вызовы: %v", calls)
	}

	s, ok := f.registry.Get(5)
	if !ok || s.State() != session.StateViewingHistory {
		t.Fatalf("В чате должен открыться просмотр попытки")
	}
	if score, ok := s.FinalScore(); !ok || score != 1 {
		t.Errorf("Ожидался балл попытки 1, получено %d", score)
	}
	if a, _ := s.Answer("2"); !a.Contains("20") {
		t.Errorf("Ответы попытки должны сохраниться: %+v", a)
	}

	if _, err := s.ToggleOption("2", "21"); !errors.Is(err, session.ErrReadOnly) {
		t.Errorf("ToggleOption в просмотре должен вернуть ErrReadOnly, получено %v", err)
	}
	if err := s.Submit(context.Background()); !errors.Is(err, session.ErrReadOnly) {
		t.Errorf("Submit в просмотре должен вернуть ErrReadOnly, получено %v", err)
	}
	s.Tick(context.Background())
	if s.Remaining() != 0 || s.State() != session.StateViewingHistory {
		t.Errorf("Просмотр не должен тикать: remaining=%d state=%s", s.Remaining(), s.State())
	}

	// Нажатия на кнопки просмотра отвечают уведомлением и ничего не меняют
	f.fake.reset()
	tag := testview.Tag(s)
	answers := answer_handler.NewAnswerHandler(f.registry, f.messages, zap.NewNop())
	if err := answers.Handle(f.bot.NewContext(callback(testview.JoinData(tag, "2", "21")))); err != nil {
		t.Fatalf("Handle вернул ошибку: %v", err)
	}
	finish := finish_test_handler.NewFinishTestHandler(f.registry, f.messages)
	if err := finish.Handle(f.bot.NewContext(callback(tag))); err != nil {
		t.Fatalf("Handle вернул ошибку: %v", err)
	}
	if calls := f.fake.calls(); len(calls) != 2 || calls[0] != "answerCallbackQuery" || calls[1] != "answerCallbackQuery" {
		t.Errorf("Ожидались два уведомления history_read_only, вызовы: %v", calls)
	}
	if a, _ := s.Answer("2"); a.Contains("21") {
		t.Errorf("Ответ в просмотре не должен меняться")
	}
}

func TestHistoryHandler_NotFound(t *testing.T) {
	f := newFixture(t)
	h := NewHistoryHandler(f.results, f.registry, f.messages, zap.NewNop())

	if err := h.Handle(f.bot.NewContext(callback("deadbeef"))); err != nil {
		t.Fatalf("Handle вернул ошибку: %v", err)
	}
	if _, ok := f.registry.Get(5); ok {
		t.Errorf("Неизвестная попытка не должна открываться")
	}
	if calls := f.fake.calls(); len(calls) != 1 || calls[0] != "answerCallbackQuery" {
		t.Errorf("Ожидалось уведомление history_not_found, вызовы: %v", calls)
	}
}

func TestHistoryHandler_KeepsRunningTest(t *testing.T) {
	f := newFixture(t)
	h := NewHistoryHandler(f.results, f.registry, f.messages, zap.NewNop())

	running := session.New(model.Test{ID: "8", Duration: 5}, []model.Question{{ID: "1"}},
		session.Owner{}, nil, zap.NewNop(), session.WithTickInterval(time.Hour))
	if err := running.Start(context.Background()); err != nil {
		t.Fatalf("Start вернул ошибку: %v", err)
	}
	t.Cleanup(running.Discard)
	f.registry.Put(5, running)

	if err := h.Handle(f.bot.NewContext(callback("12345678"))); err != nil {
		t.Fatalf("Handle вернул ошибку: %v", err)
	}
	if s, _ := f.registry.Get(5); s != running || running.State() != session.StateInProgress {
		t.Errorf("Просмотр не должен прерывать идущий тест")
	}
}
