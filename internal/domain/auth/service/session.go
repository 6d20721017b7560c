package service

import (
	"sync"

	"github.com/IT-Nick/veritasbot/internal/domain/model"
)

// Session состояние авторизации одного чата. Передается компонентам явно.
type Session struct {
	chatID int64

	mu      sync.RWMutex
	user    *model.User
	token   string
	lastErr *model.AuthError
}

func newSession(chatID int64) *Session {
	return &Session{chatID: chatID}
}

func (s *Session) ChatID() int64 {
	return s.chatID
}

// User возвращает копию пользователя; ok=false, если сессия не авторизована
func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated требует и пользователя, и токен
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

func (s *Session) IsTeacher() bool {
	u, ok := s.User()
	return ok && u.IsTeacher()
}

// LastError последняя ошибка логина или регистрации
func (s *Session) LastError() *model.AuthError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Session) set(user model.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.token = token
	s.lastErr = nil
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	s.lastErr = nil
}

func (s *Session) fail(kind model.AuthErrorKind, message string) *model.AuthError {
	err := &model.AuthError{Kind: kind, Message: message}
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	return err
}
