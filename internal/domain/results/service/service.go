package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	"github.com/IT-Nick/veritasbot/internal/domain/dto"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient/paths"
	"go.uber.org/zap"
)

// ResultService загружает результаты и аналитику, хранит локальные результаты чатов
type ResultService struct {
	api    *apiclient.Client
	logger *zap.Logger

	mu    sync.Mutex
	local map[int64][]model.TestResult
}

// NewResultService создает новый экземпляр ResultService
func NewResultService(api *apiclient.Client, logger *zap.Logger) *ResultService {
	return &ResultService{
		api:    api,
		logger: logger,
		local:  make(map[int64][]model.TestResult),
	}
}

// AddLocal добавляет результат, собранный после завершения сессии в чате
func (s *ResultService) AddLocal(chatID int64, result model.TestResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local[chatID] = append(s.local[chatID], result)
}

// Local результаты, завершенные в этом чате
func (s *ResultService) Local(chatID int64) []model.TestResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.TestResult(nil), s.local[chatID]...)
}

// LocalAttempt результат попытки этого чата по метке сессии (префикс ее id)
func (s *ResultService) LocalAttempt(chatID int64, tag string) (model.TestResult, bool) {
	if tag == "" {
		return model.TestResult{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.local[chatID] {
		if r.HasAttempt() && strings.HasPrefix(r.SessionID, tag) {
			return r, true
		}
	}
	return model.TestResult{}, false
}

// ForgetLocal очищает локальные результаты (выход из аккаунта)
func (s *ResultService) ForgetLocal(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.local, chatID)
}

// MyResults результаты студента с сервера, дополненные локальными результатами
// тестов, которых сервер еще не вернул
func (s *ResultService) MyResults(ctx context.Context, sess *authService.Session) ([]model.TestResult, error) {
	user, ok := sess.User()
	if !ok {
		return nil, apiclient.ErrNotAuthenticated
	}

	var raw json.RawMessage
	if err := s.api.Get(ctx, "results.student", paths.StudentResults(user.ID), sess.Token(), &raw); err != nil {
		return nil, fmt.Errorf("failed to load student results: %w", err)
	}
	var list []dto.RawResult
	if err := json.Unmarshal(raw, &list); err != nil {
		s.logger.Warn("student results is not a list", zap.String("student_id", user.ID), zap.Error(err))
		list = nil
	}
	results := s.normalizeAll("results.student", list)

	known := make(map[string]struct{}, len(results))
	for _, r := range results {
		known[r.TestID] = struct{}{}
	}
	for _, r := range s.Local(sess.ChatID()) {
		if _, ok := known[r.TestID]; !ok {
			results = append(results, r)
		}
	}
	return results, nil
}

// Analytics загружает записи для аналитики: все результаты для преподавателя,
// собственные для студента
func (s *ResultService) Analytics(ctx context.Context, sess *authService.Session) ([]model.TestResult, error) {
	user, ok := sess.User()
	if !ok {
		return nil, apiclient.ErrNotAuthenticated
	}

	if user.IsTeacher() {
		var raw json.RawMessage
		if err := s.api.Get(ctx, "analytics.teacher", paths.TeacherStats, sess.Token(), &raw); err != nil {
			return nil, fmt.Errorf("failed to load analytics: %w", err)
		}
		var list []dto.RawResult
		if err := json.Unmarshal(raw, &list); err != nil {
			s.logger.Warn("teacher analytics is not a list", zap.Error(err))
			return []model.TestResult{}, nil
		}
		return s.normalizeAll("analytics.teacher", list), nil
	}

	var resp dto.StudentAnalyticsResponse
	if err := s.api.Get(ctx, "analytics.student", paths.StudentAnalytics(user.ID), sess.Token(), &resp); err != nil {
		return nil, fmt.Errorf("failed to load analytics: %w", err)
	}
	return s.normalizeAll("analytics.student", resp.Results), nil
}

// TestResults результаты студентов по тесту преподавателя
func (s *ResultService) TestResults(ctx context.Context, sess *authService.Session, test model.Test) ([]model.StudentResult, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, "results.test", paths.TestResults(test.ID), sess.Token(), &raw); err != nil {
		return nil, fmt.Errorf("failed to load test results: %w", err)
	}

	var list []dto.RawStudentResult
	if err := json.Unmarshal(raw, &list); err != nil {
		s.logger.Warn("test results is not a list", zap.String("test_id", test.ID), zap.Error(err))
		return []model.StudentResult{}, nil
	}

	results := make([]model.StudentResult, 0, len(list))
	for _, r := range list {
		result, corrupt := NormalizeStudentResult(r, test.MaxScore)
		if len(corrupt) > 0 {
			s.logger.Warn("student result has malformed fields",
				zap.String("test_id", test.ID),
				zap.String("student_id", result.StudentID),
				zap.Strings("fields", corrupt),
			)
		}
		results = append(results, result)
	}
	return results, nil
}

// StudentReview ответы студента по вопросам теста
func (s *ResultService) StudentReview(ctx context.Context, sess *authService.Session, studentID, testID string) ([]model.StudentAnswer, error) {
	var resp dto.ReviewResponse
	if err := s.api.Get(ctx, "results.review", paths.StudentReview(studentID, testID), sess.Token(), &resp); err != nil {
		return nil, fmt.Errorf("failed to load student answers: %w", err)
	}
	return NormalizeReview(resp.Results), nil
}

func (s *ResultService) normalizeAll(endpoint string, raw []dto.RawResult) []model.TestResult {
	results := make([]model.TestResult, 0, len(raw))
	for _, r := range raw {
		result, corrupt := NormalizeResult(r)
		if len(corrupt) > 0 {
			s.logger.Warn("result record has malformed fields",
				zap.String("endpoint", endpoint),
				zap.String("result_id", result.ID),
				zap.Strings("fields", corrupt),
			)
		}
		results = append(results, result)
	}
	return results
}
