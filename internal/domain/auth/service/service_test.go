package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient"
	"github.com/IT-Nick/veritasbot/internal/infra/storage"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, h http.HandlerFunc) (*AuthService, storage.Store, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	store := storage.NewMemoryStore()
	api := apiclient.NewClient(srv.URL, time.Second, zap.NewNop())
	return NewAuthService(api, store, zap.NewNop()), store, &calls
}

func TestLogin_Success(t *testing.T) {
	svc, store, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" {
			t.Errorf("Неожиданный путь %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":     "tok",
			"role":      "admin",
			"user_name": "Шевченко Тарас",
			"userId":    17,
			"email":     "t@uni.ua",
		})
	})
	ctx := context.Background()
	sess := svc.Session(ctx, 100)

	if err := svc.Login(ctx, sess, "t@uni.ua", "secret1"); err != nil {
		t.Fatalf("Login вернул ошибку: %v", err)
	}

	user, ok := sess.User()
	if !ok || !sess.IsAuthenticated() {
		t.Fatal("Сессия должна быть авторизована")
	}
	if user.Role != model.RoleTeacher {
		t.Errorf("Роль admin должна стать teacher, получено %q", user.Role)
	}
	if user.LastName != "Шевченко" || user.FirstName != "Тарас" {
		t.Errorf("Неверный разбор имени: %q %q", user.LastName, user.FirstName)
	}
	if user.ID != "17" {
		t.Errorf("Ожидался id 17, получено %q", user.ID)
	}

	for _, key := range []string{storage.KeyUser, storage.KeyToken, storage.KeyRole} {
		if _, ok, _ := store.Get(ctx, 100, key); !ok {
			t.Errorf("Ключ %s не сохранен", key)
		}
	}
	role, _, _ := store.Get(ctx, 100, storage.KeyRole)
	if role != "admin" {
		t.Errorf("В хранилище должна лежать серверная роль, получено %q", role)
	}
}

func TestLogin_ServerErrorKeepsPriorSession(t *testing.T) {
	var fail atomic.Bool
	svc, _, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Невірний пароль"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"token": "tok", "role": "student", "user_name": "Іваненко Олена", "userId": "5"})
	})
	ctx := context.Background()
	sess := svc.Session(ctx, 1)
	if err := svc.Login(ctx, sess, "a@b.c", "secret1"); err != nil {
		t.Fatalf("Login вернул ошибку: %v", err)
	}

	fail.Store(true)
	err := svc.Login(ctx, sess, "a@b.c", "wrong")
	var authErr *model.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Ожидалась *model.AuthError, получено %v", err)
	}
	if authErr.Kind != model.AuthErrorLogin || authErr.Message != "Невірний пароль" {
		t.Errorf("Неверная ошибка: %+v", authErr)
	}
	if !sess.IsAuthenticated() || sess.Token() != "tok" {
		t.Errorf("Прежняя сессия должна сохраниться")
	}
	if sess.LastError() == nil {
		t.Errorf("LastError должна быть заполнена")
	}
}

func TestLogin_ConnectionError(t *testing.T) {
	store := storage.NewMemoryStore()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	svc := NewAuthService(apiclient.NewClient(url, time.Second, zap.NewNop()), store, zap.NewNop())
	ctx := context.Background()
	sess := svc.Session(ctx, 1)

	err := svc.Login(ctx, sess, "a@b.c", "secret1")
	var authErr *model.AuthError
	if !errors.As(err, &authErr) || authErr.Message != msgConnection {
		t.Errorf("Ожидалась ошибка подключения, получено %v", err)
	}
	if sess.IsAuthenticated() {
		t.Errorf("Сессия не должна быть авторизована")
	}
}

func TestLogin_UserIDFromToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 42}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("не удалось подписать токен: %v", err)
	}
	svc, _, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"token": token, "role": "student"})
	})
	ctx := context.Background()
	sess := svc.Session(ctx, 1)
	if err := svc.Login(ctx, sess, "a@b.c", "secret1"); err != nil {
		t.Fatalf("Login вернул ошибку: %v", err)
	}
	user, _ := sess.User()
	if user.ID != "42" {
		t.Errorf("Ожидался id из токена 42, получено %q", user.ID)
	}
	if user.LastName != defaultLastName {
		t.Errorf("Без user_name фамилия должна быть %q, получено %q", defaultLastName, user.LastName)
	}
}

func TestRegister_LocalValidationOrder(t *testing.T) {
	svc, _, calls := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()
	sess := svc.Session(ctx, 1)

	cases := []struct {
		name string
		form RegisterForm
		want string
	}{
		{"email без @", RegisterForm{Email: "bad", Password: "1", ConfirmPassword: "2"}, msgInvalidEmail},
		{"пароли не совпадают", RegisterForm{Email: "a@b", Password: "1", ConfirmPassword: "2"}, msgPasswordMismatch},
		{"короткий пароль", RegisterForm{Email: "a@b", Password: "12345", ConfirmPassword: "12345"}, msgPasswordShort},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Register(ctx, sess, tc.form)
			var authErr *model.AuthError
			if !errors.As(err, &authErr) || authErr.Kind != model.AuthErrorRegister || authErr.Message != tc.want {
				t.Errorf("Ожидалось %q, получено %v", tc.want, err)
			}
		})
	}

	if atomic.LoadInt32(calls) != 0 {
		t.Errorf("При ошибке валидации запрос не должен уходить на сервер")
	}
}

func TestRegister_TeacherPayload(t *testing.T) {
	var (
		mu  sync.Mutex
		got map[string]any
	)
	svc, _, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]any{"token": "tok", "role": "admin"})
	})
	ctx := context.Background()
	sess := svc.Session(ctx, 1)

	err := svc.Register(ctx, sess, RegisterForm{
		UserName: "Коваль Петро", Email: "p@uni.ua", Password: "secret1", ConfirmPassword: "secret1", Teacher: true,
	})
	if err != nil {
		t.Fatalf("Register вернул ошибку: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if got["role"] != "admin" || got["group_id"] != float64(TeacherGroupID) {
		t.Errorf("Неверное тело регистрации: %v", got)
	}
	if !sess.IsTeacher() {
		t.Errorf("После регистрации преподавателя роль должна быть teacher")
	}
}

func TestRegister_PasswordSentAsTyped(t *testing.T) {
	var (
		mu  sync.Mutex
		got map[string]any
	)
	svc, _, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]any{"token": "tok", "role": "student"})
	})
	ctx := context.Background()

	// Проверенный по длине пароль уходит на сервер без изменений
	err := svc.Register(ctx, svc.Session(ctx, 1), RegisterForm{
		UserName: "Бойко Олена", Email: "o@uni.ua", Password: "  abc  ", ConfirmPassword: "  abc  ", GroupID: 3,
	})
	if err != nil {
		t.Fatalf("Register вернул ошибку: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if got["password"] != "  abc  " {
		t.Errorf("Пароль должен уйти как введен, получено %q", got["password"])
	}
}

func TestRestoreAndLogout(t *testing.T) {
	svc, store, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()

	_ = store.Set(ctx, 5, storage.KeyUser, `{"id":"9","lastName":"Бойко","role":"student"}`)
	sess := svc.Session(ctx, 5)
	if sess.IsAuthenticated() {
		t.Fatal("Без токена сессия не должна восстанавливаться")
	}

	// новый сервис читает хранилище заново
	_ = store.Set(ctx, 6, storage.KeyUser, `{"id":"9","lastName":"Бойко","role":"student"}`)
	_ = store.Set(ctx, 6, storage.KeyToken, "tok")
	_ = store.Set(ctx, 7, storage.KeyUser, `{broken`)
	_ = store.Set(ctx, 7, storage.KeyToken, "tok")

	restored := svc.Session(ctx, 6)
	if !restored.IsAuthenticated() {
		t.Fatal("Сессия с user и token должна восстановиться")
	}
	if svc.Session(ctx, 7).IsAuthenticated() {
		t.Errorf("Поврежденная запись пользователя не должна авторизовать чат")
	}

	if err := svc.Logout(ctx, restored); err != nil {
		t.Fatalf("Logout вернул ошибку: %v", err)
	}
	if restored.IsAuthenticated() {
		t.Errorf("После выхода сессия должна быть пустой")
	}
	if _, ok, _ := store.Get(ctx, 6, storage.KeyToken); ok {
		t.Errorf("После выхода токен должен быть удален из хранилища")
	}
}
