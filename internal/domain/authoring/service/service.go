package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient/paths"
	"go.uber.org/zap"
)

const MsgSaveFailed = "Не вдалося зберегти тест"

// ErrNoForm в чате не начато создание теста
var ErrNoForm = errors.New("no test form in progress")

// AuthoringService хранит формы создания тестов по чатам и сохраняет их на сервере
type AuthoringService struct {
	api    *apiclient.Client
	loc    *time.Location
	logger *zap.Logger

	mu    sync.Mutex
	forms map[int64]*Form
}

// NewAuthoringService создает новый экземпляр AuthoringService. loc - часовой пояс,
// в котором преподаватель вводит даты.
func NewAuthoringService(api *apiclient.Client, loc *time.Location, logger *zap.Logger) *AuthoringService {
	if loc == nil {
		loc = time.UTC
	}
	return &AuthoringService{
		api:    api,
		loc:    loc,
		logger: logger,
		forms:  make(map[int64]*Form),
	}
}

// Begin начинает новую форму, предыдущая отбрасывается
func (s *AuthoringService) Begin(chatID int64) *Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := NewForm()
	s.forms[chatID] = f
	return f
}

// Cancel отбрасывает форму чата
func (s *AuthoringService) Cancel(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.forms[chatID]
	delete(s.forms, chatID)
	return ok
}

// With выполняет fn над формой чата под блокировкой
func (s *AuthoringService) With(chatID int64, fn func(f *Form) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forms[chatID]
	if !ok {
		return ErrNoForm
	}
	return fn(f)
}

// Save отправляет форму на сервер и при успехе удаляет ее
func (s *AuthoringService) Save(ctx context.Context, sess *authService.Session) error {
	user, ok := sess.User()
	if !ok {
		return apiclient.ErrNotAuthenticated
	}

	createdBy, err := strconv.Atoi(user.ID)
	if err != nil {
		s.logger.Warn("teacher id is not numeric", zap.String("user_id", user.ID))
	}

	var payload any
	err = s.With(sess.ChatID(), func(f *Form) error {
		req, err := f.Payload(createdBy, s.loc)
		if err != nil {
			return err
		}
		if f.ScoreMismatch() {
			s.logger.Info("max score differs from question points",
				zap.Int("max_score", f.MaxScore),
				zap.Int("points", f.TotalPoints()),
			)
		}
		payload = req
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.api.Post(ctx, "tests.create", paths.Tests, sess.Token(), payload, nil); err != nil {
		return fmt.Errorf("failed to save test: %w", err)
	}

	s.Cancel(sess.ChatID())
	s.logger.Info("test created", zap.Int64("chat_id", sess.ChatID()), zap.String("teacher_id", user.ID))
	return nil
}
