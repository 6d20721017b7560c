package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	msgRepo "github.com/IT-Nick/veritasbot/internal/domain/messages/repository"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	rolesRepo "github.com/IT-Nick/veritasbot/internal/domain/roles/repository"
	rolesService "github.com/IT-Nick/veritasbot/internal/domain/roles/service"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient"
	"github.com/IT-Nick/veritasbot/internal/infra/storage"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// fakeTelegram принимает вызовы Bot API и запоминает методы
type fakeTelegram struct {
	mu      sync.Mutex
	methods []string
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.methods = append(f.methods, r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
	f.mu.Unlock()
	_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":5,"type":"private"}}}`))
}

func (f *fakeTelegram) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.methods...)
}

func newBot(t *testing.T) (*telebot.Bot, *fakeTelegram) {
	t.Helper()
	fake := &fakeTelegram{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	bot, err := telebot.NewBot(telebot.Settings{URL: srv.URL, Token: "test", Offline: true})
	if err != nil {
		t.Fatalf("Не удалось создать бота: %v", err)
	}
	return bot, fake
}

func commandUpdate(text string) telebot.Update {
	return telebot.Update{
		ID: 1,
		Message: &telebot.Message{
			ID:     1,
			Text:   text,
			Chat:   &telebot.Chat{ID: 5, Type: telebot.ChatPrivate},
			Sender: &telebot.User{ID: 5},
		},
	}
}

func newServices(t *testing.T, userJSON string) (*authService.AuthService, *messageService.MessageService) {
	t.Helper()
	store := storage.NewMemoryStore()
	if userJSON != "" {
		_ = store.Set(context.Background(), 5, storage.KeyUser, userJSON)
		_ = store.Set(context.Background(), 5, storage.KeyToken, "tok")
	}
	api := apiclient.NewClient("http://127.0.0.1:1", time.Second, zap.NewNop())
	repo, err := msgRepo.NewMessageRepository("")
	if err != nil {
		t.Fatalf("NewMessageRepository вернул ошибку: %v", err)
	}
	return authService.NewAuthService(api, store, zap.NewNop()), messageService.NewMessageService(repo, zap.NewNop())
}

func TestRequireAuth_Rejects(t *testing.T) {
	bot, fake := newBot(t)
	auth, messages := newServices(t, "")

	called := false
	h := RequireAuth(auth, messages)(func(c telebot.Context) error {
		called = true
		return nil
	})

	if err := h(bot.NewContext(commandUpdate("/tests"))); err != nil {
		t.Fatalf("Обработчик вернул ошибку: %v", err)
	}
	if called {
		t.Errorf("Неавторизованный чат не должен доходить до обработчика")
	}
	if calls := fake.calls(); len(calls) != 1 || calls[0] != "sendMessage" {
		t.Errorf("Ожидалось одно сообщение пользователю, вызовы: %v", calls)
	}
}

func TestRequireAuth_PassesSessionAndPermissionGate(t *testing.T) {
	bot, fake := newBot(t)
	auth, messages := newServices(t, `{"id":"3","role":"student"}`)

	var got *authService.Session
	teacherCalled := false
	h := RequireAuth(auth, messages)(func(c telebot.Context) error {
		got = Session(c)
		roles := rolesService.NewRoleService(rolesRepo.NewRolePermissionRepository())
		return RequirePermission(roles, messages, rolesRepo.PermissionCreateTest)(func(telebot.Context) error {
			teacherCalled = true
			return nil
		})(c)
	})

	if err := h(bot.NewContext(commandUpdate("/newtest"))); err != nil {
		t.Fatalf("Обработчик вернул ошибку: %v", err)
	}
	if got == nil || got.ChatID() != 5 {
		t.Fatalf("Сессия должна быть в контексте")
	}
	if teacherCalled {
		t.Errorf("Студент не должен проходить проверку преподавателя")
	}
	if len(fake.calls()) != 1 {
		t.Errorf("Студенту должно уйти сообщение teacher_only")
	}
}

func TestRecover(t *testing.T) {
	bot, fake := newBot(t)

	h := Recover(zap.NewNop(), "Сталася помилка")(func(telebot.Context) error {
		panic("boom")
	})

	err := h(bot.NewContext(commandUpdate("/tests")))
	if err == nil || err.Error() != "boom" {
		t.Errorf("Ожидалась ошибка boom, получено %v", err)
	}
	if len(fake.calls()) != 1 {
		t.Errorf("Пользователь должен получить сообщение об ошибке")
	}
}

func TestUpdateKind(t *testing.T) {
	bot, _ := newBot(t)

	if kind := UpdateKind(bot.NewContext(commandUpdate("/start"))); kind != "command" {
		t.Errorf("UpdateKind = %q, ожидалось command", kind)
	}
	if kind := UpdateKind(bot.NewContext(commandUpdate("Київ"))); kind != "text" {
		t.Errorf("UpdateKind = %q, ожидалось text", kind)
	}
	cb := telebot.Update{ID: 2, Callback: &telebot.Callback{ID: "1", Data: "x"}}
	if kind := UpdateKind(bot.NewContext(cb)); kind != "callback" {
		t.Errorf("UpdateKind = %q, ожидалось callback", kind)
	}
}
