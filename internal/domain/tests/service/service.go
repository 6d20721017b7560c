package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	"github.com/IT-Nick/veritasbot/internal/domain/dto"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient/paths"
	"go.uber.org/zap"
)

// ErrTestNotFound тест отсутствует в каталоге пользователя
var ErrTestNotFound = errors.New("test not found")

// TestService загружает каталог тестов и вопросы
type TestService struct {
	api    *apiclient.Client
	logger *zap.Logger
}

// NewTestService создает новый экземпляр TestService
func NewTestService(api *apiclient.Client, logger *zap.Logger) *TestService {
	return &TestService{api: api, logger: logger}
}

// LoadTests возвращает тесты преподавателя или доступные группе студента.
// Студент без группы получает пустой список без запроса к серверу.
func (s *TestService) LoadTests(ctx context.Context, sess *authService.Session) ([]model.Test, error) {
	user, ok := sess.User()
	if !ok {
		return nil, apiclient.ErrNotAuthenticated
	}

	var (
		raw      []dto.RawTest
		err      error
		endpoint string
	)
	if user.IsTeacher() {
		endpoint = "tests.teacher"
		err = s.api.Get(ctx, endpoint, paths.TeacherTests(user.ID), sess.Token(), &raw)
	} else {
		if user.GroupNumber == "" || user.GroupNumber == "0" {
			return []model.Test{}, nil
		}
		endpoint = "tests.student"
		err = s.api.Get(ctx, endpoint, paths.StudentTests(user.GroupNumber), sess.Token(), &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tests: %w", err)
	}

	tests := make([]model.Test, 0, len(raw))
	for _, r := range raw {
		test, corrupt := NormalizeTest(r)
		if len(corrupt) > 0 {
			s.logger.Warn("test record has malformed fields",
				zap.String("endpoint", endpoint),
				zap.String("test_id", test.ID),
				zap.Strings("fields", corrupt),
			)
		}
		tests = append(tests, test)
	}
	return tests, nil
}

// LoadQuestions загружает вопросы теста
func (s *TestService) LoadQuestions(ctx context.Context, sess *authService.Session, testID string) ([]model.Question, error) {
	var raw []dto.RawQuestion
	if err := s.api.Get(ctx, "tests.questions", paths.TestQuestions(testID), sess.Token(), &raw); err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	questions := make([]model.Question, 0, len(raw))
	for _, r := range raw {
		q, corrupt := NormalizeQuestion(r)
		if len(corrupt) > 0 {
			s.logger.Warn("question record has malformed fields",
				zap.String("test_id", testID),
				zap.String("question_id", q.ID),
				zap.Strings("fields", corrupt),
			)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// FindTest ищет тест по идентификатору в каталоге пользователя
func (s *TestService) FindTest(ctx context.Context, sess *authService.Session, testID string) (model.Test, error) {
	tests, err := s.LoadTests(ctx, sess)
	if err != nil {
		return model.Test{}, err
	}
	for _, t := range tests {
		if t.ID == testID {
			return t, nil
		}
	}
	return model.Test{}, fmt.Errorf("%w: %s", ErrTestNotFound, testID)
}

// CheckSubmitted сообщает, проходил ли пользователь тест
func (s *TestService) CheckSubmitted(ctx context.Context, sess *authService.Session, testID string) (bool, error) {
	var resp dto.CheckSubmissionResponse
	if err := s.api.Get(ctx, "submissions.check", paths.SubmissionCheck(testID), sess.Token(), &resp); err != nil {
		return false, fmt.Errorf("failed to check submission: %w", err)
	}
	return resp.AlreadySubmitted, nil
}

// Groups возвращает список учебных групп
func (s *TestService) Groups(ctx context.Context, token string) ([]model.Group, error) {
	var raw []dto.GroupResponse
	err := s.api.Do(ctx, apiclient.Request{
		Endpoint: "groups",
		Method:   http.MethodGet,
		Path:     paths.Groups,
		Token:    token,
		Public:   true,
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}

	groups := make([]model.Group, 0, len(raw))
	for _, g := range raw {
		groups = append(groups, model.Group{
			ID:     g.ID.Value,
			Code:   g.GroupCode.Value,
			Number: g.GroupNumber.Value,
		})
	}
	return groups, nil
}
