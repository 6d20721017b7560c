package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient"
	"github.com/IT-Nick/veritasbot/internal/infra/storage"
	"go.uber.org/zap"
)

// loggedInSession восстанавливает сессию из хранилища, как после перезапуска бота
func loggedInSession(t *testing.T, api *apiclient.Client, userJSON string) *authService.Session {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	_ = store.Set(ctx, 1, storage.KeyUser, userJSON)
	_ = store.Set(ctx, 1, storage.KeyToken, "tok")
	sess := authService.NewAuthService(api, store, zap.NewNop()).Session(ctx, 1)
	if !sess.IsAuthenticated() {
		t.Fatal("Сессия должна восстановиться")
	}
	return sess
}

func TestLoadTests_StudentWithoutGroup(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	api := apiclient.NewClient(srv.URL, time.Second, zap.NewNop())
	sess := loggedInSession(t, api, `{"id":"3","role":"student","groupNumber":""}`)

	tests, err := NewTestService(api, zap.NewNop()).LoadTests(context.Background(), sess)
	if err != nil {
		t.Fatalf("LoadTests вернул ошибку: %v", err)
	}
	if len(tests) != 0 {
		t.Errorf("Ожидался пустой список, получено %d", len(tests))
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("Без группы запрос не должен уходить на сервер")
	}
}

func TestLoadTests_Teacher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tests/8" {
			t.Errorf("Неожиданный путь %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"id": 1, "title": "A", "groups": "КН-21"}, {"id": 2, "title": "B"}]`))
	}))
	defer srv.Close()

	api := apiclient.NewClient(srv.URL, time.Second, zap.NewNop())
	sess := loggedInSession(t, api, `{"id":"8","role":"teacher"}`)

	tests, err := NewTestService(api, zap.NewNop()).LoadTests(context.Background(), sess)
	if err != nil {
		t.Fatalf("LoadTests вернул ошибку: %v", err)
	}
	if len(tests) != 2 || tests[0].Groups[0] != "КН-21" {
		t.Errorf("Неверный каталог: %+v", tests)
	}
}

func TestLoadQuestions_StudentPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/student/test/4" {
			t.Errorf("Неожиданный путь %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"question_id": 10, "type": "text", "question": "Поясніть"}]`))
	}))
	defer srv.Close()

	api := apiclient.NewClient(srv.URL, time.Second, zap.NewNop())
	sess := loggedInSession(t, api, `{"id":"3","role":"student","groupNumber":"2"}`)

	questions, err := NewTestService(api, zap.NewNop()).LoadQuestions(context.Background(), sess, "4")
	if err != nil {
		t.Fatalf("LoadQuestions вернул ошибку: %v", err)
	}
	if len(questions) != 1 || questions[0].ID != "10" || questions[0].Text != "Поясніть" {
		t.Errorf("Неверные вопросы: %+v", questions)
	}
}
