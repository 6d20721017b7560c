package session

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/IT-Nick/veritasbot/internal/domain/dto"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient/paths"
)

const (
	msgAuthFailed   = "Помилка авторизації"
	msgServerFailed = "Помилка сервера"
	msgConnection   = "Помилка підключення до сервера"
)

var (
	ErrMissingIdentity = errors.New("missing student identity")
	ErrInvalidTestID   = errors.New("test id is not numeric")
)

// Submitter отправляет ответы и возвращает итоговый балл
type Submitter interface {
	Submit(ctx context.Context, token string, req dto.SubmissionRequest) (int, error)
}

// APISubmitter отправляет ответы на POST /submissions
type APISubmitter struct {
	api *apiclient.Client
}

func NewAPISubmitter(api *apiclient.Client) *APISubmitter {
	return &APISubmitter{api: api}
}

func (a *APISubmitter) Submit(ctx context.Context, token string, req dto.SubmissionRequest) (int, error) {
	var resp dto.SubmissionResponse
	if err := a.api.Post(ctx, "submissions", paths.Submissions, token, req, &resp); err != nil {
		return 0, err
	}
	return resp.TotalScore.Or(0), nil
}

// BuildSubmission собирает тело отправки. Для каждого вопроса выбранные варианты берутся
// из списка или непустого скалярного ответа независимо от типа вопроса, нечисловые значения
// отбрасываются. answer_text заполняется только для отвеченных текстовых вопросов.
// Вопросы с нечисловым идентификатором пропускаются и возвращаются в skipped.
func BuildSubmission(testID string, questions []model.Question, answers map[string]model.Answer, studentID string) (req dto.SubmissionRequest, skipped []string, err error) {
	tid, err := strconv.Atoi(strings.TrimSpace(testID))
	if err != nil {
		return req, nil, ErrInvalidTestID
	}
	sid, err := strconv.Atoi(strings.TrimSpace(studentID))
	if err != nil {
		return req, nil, ErrMissingIdentity
	}

	req = dto.SubmissionRequest{
		TestID:    tid,
		StudentID: sid,
		Answers:   make([]dto.AnswerPayload, 0, len(questions)),
	}

	for _, q := range questions {
		qid, err := strconv.Atoi(strings.TrimSpace(q.ID))
		if err != nil {
			skipped = append(skipped, q.ID)
			continue
		}

		answer, answered := answers[q.ID]
		selected := make([]int, 0)
		for _, v := range answer.Strings() {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				selected = append(selected, n)
			}
		}

		var text *string
		if q.Type == model.QuestionText && answered && !answer.IsList {
			trimmed := strings.TrimSpace(answer.Value)
			text = &trimmed
		}

		req.Answers = append(req.Answers, dto.AnswerPayload{
			QuestionID:        qid,
			SelectedOptionIDs: selected,
			AnswerText:        text,
		})
	}

	return req, skipped, nil
}

// FailureMessage текст для пользователя при неудачной отправке
func FailureMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingIdentity), errors.Is(err, apiclient.ErrNotAuthenticated):
		return msgAuthFailed
	case apiclient.IsServerError(err):
		return apiclient.ServerMessage(err, msgServerFailed)
	case errors.Is(err, ErrInvalidTestID):
		return msgServerFailed
	default:
		return msgConnection
	}
}
