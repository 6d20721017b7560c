package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	"github.com/IT-Nick/veritasbot/internal/domain/dto"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient"
	"github.com/IT-Nick/veritasbot/internal/infra/storage"
	"go.uber.org/zap"
)

func newSession(t *testing.T, api *apiclient.Client, userJSON string) *authService.Session {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	_ = store.Set(ctx, 5, storage.KeyUser, userJSON)
	_ = store.Set(ctx, 5, storage.KeyToken, "tok")
	sess := authService.NewAuthService(api, store, zap.NewNop()).Session(ctx, 5)
	if !sess.IsAuthenticated() {
		t.Fatal("Сессия должна восстановиться")
	}
	return sess
}

func newServer(t *testing.T, routes map[string]string) (*apiclient.Client, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			t.Errorf("Неожиданный путь %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	return apiclient.NewClient(srv.URL, time.Second, zap.NewNop()), srv.Close
}

func TestNormalizeResult_Fallbacks(t *testing.T) {
	var raw dto.RawResult
	data := `{"id": 4, "test_id": 9, "subject": "Фізика", "score": 0, "total_score": 7,
		"max_score": 10, "group_name": "КН-1", "submitted_at": "2024-05-01T10:00:00Z", "end_at": "2024-05-02 10:00"}`
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		t.Fatalf("Ошибка разбора: %v", err)
	}

	result, corrupt := NormalizeResult(raw)
	if len(corrupt) != 0 {
		t.Errorf("Неожиданные поврежденные поля: %v", corrupt)
	}
	want := model.TestResult{
		ID:           "4",
		TestID:       "9",
		Subject:      "Фізика",
		EndTime:      "2024-05-02 10:00",
		Score:        7,
		MaxScore:     10,
		Status:       model.StatusCompleted,
		StudentGroup: "КН-1",
		CompletedAt:  "2024-05-01T10:00:00Z",
	}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("Результат %+v, ожидалось %+v", result, want)
	}
}

func TestNormalizeStudentResult_Defaults(t *testing.T) {
	var raw dto.RawStudentResult
	if err := json.Unmarshal([]byte(`{"user_id": 12, "score": "abc"}`), &raw); err != nil {
		t.Fatalf("Ошибка разбора: %v", err)
	}

	result, corrupt := NormalizeStudentResult(raw, 0)
	if result.StudentID != "12" || result.StudentName != UnknownStudent || result.Group != NoGroup {
		t.Errorf("Неверные значения по умолчанию: %+v", result)
	}
	if result.MaxScore != 100 {
		t.Errorf("MaxScore = %d, ожидалось 100", result.MaxScore)
	}
	if len(corrupt) != 1 || corrupt[0] != "score" {
		t.Errorf("Ожидалось поврежденное поле score, получено %v", corrupt)
	}

	withTestMax, _ := NormalizeStudentResult(raw, 40)
	if withTestMax.MaxScore != 40 {
		t.Errorf("Максимум теста должен использоваться, получено %d", withTestMax.MaxScore)
	}
}

func TestAnalytics_StudentWrappedResponse(t *testing.T) {
	api, closeFn := newServer(t, map[string]string{
		"/student/analytics/3": `{"allResults": [{"subject": "М", "score": 5, "maxScore": 10}]}`,
	})
	defer closeFn()

	sess := newSession(t, api, `{"id":"3","role":"student"}`)
	results, err := NewResultService(api, zap.NewNop()).Analytics(context.Background(), sess)
	if err != nil {
		t.Fatalf("Analytics вернул ошибку: %v", err)
	}
	if len(results) != 1 || results[0].Score != 5 || results[0].MaxScore != 10 {
		t.Errorf("Неверные результаты: %+v", results)
	}
}

func TestAnalytics_TeacherNonArrayIsEmpty(t *testing.T) {
	api, closeFn := newServer(t, map[string]string{
		"/teacher/analytics": `{"message": "нет данных"}`,
	})
	defer closeFn()

	sess := newSession(t, api, `{"id":"8","role":"teacher"}`)
	results, err := NewResultService(api, zap.NewNop()).Analytics(context.Background(), sess)
	if err != nil {
		t.Fatalf("Analytics вернул ошибку: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Ожидался пустой список, получено %d", len(results))
	}
}

func TestMyResults_MergesLocal(t *testing.T) {
	api, closeFn := newServer(t, map[string]string{
		"/student/results/3": `[{"id": 1, "testId": "10", "score": 4, "maxScore": 5}]`,
	})
	defer closeFn()

	sess := newSession(t, api, `{"id":"3","role":"student"}`)
	svc := NewResultService(api, zap.NewNop())
	svc.AddLocal(5, model.TestResult{ID: "result-a", TestID: "10", Score: 0})
	svc.AddLocal(5, model.TestResult{ID: "result-b", TestID: "11", Score: 3, Unconfirmed: true})
	svc.AddLocal(6, model.TestResult{ID: "result-c", TestID: "12"})

	results, err := svc.MyResults(context.Background(), sess)
	if err != nil {
		t.Fatalf("MyResults вернул ошибку: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Ожидалось 2 результата, получено %d", len(results))
	}
	if results[0].TestID != "10" || results[0].Score != 4 {
		t.Errorf("Результат сервера должен быть первым: %+v", results[0])
	}
	if results[1].ID != "result-b" || !results[1].Unconfirmed {
		t.Errorf("Локальный результат не добавлен: %+v", results[1])
	}

	svc.ForgetLocal(5)
	if len(svc.Local(5)) != 0 {
		t.Errorf("Локальные результаты должны быть очищены")
	}
}

func TestMyResults_NonListBody(t *testing.T) {
	api, closeFn := newServer(t, map[string]string{
		"/student/results/3": `{"error": "unexpected"}`,
	})
	defer closeFn()

	sess := newSession(t, api, `{"id":"3","role":"student"}`)
	svc := NewResultService(api, zap.NewNop())
	svc.AddLocal(5, model.TestResult{ID: "result-a", TestID: "10", Score: 2})

	results, err := svc.MyResults(context.Background(), sess)
	if err != nil {
		t.Fatalf("Ответ не списком не должен ломать результаты: %v", err)
	}
	if len(results) != 1 || results[0].ID != "result-a" {
		t.Errorf("Ожидался только локальный результат, получено %+v", results)
	}
}

func TestLocalAttempt(t *testing.T) {
	svc := NewResultService(nil, zap.NewNop())
	svc.AddLocal(5, model.TestResult{ID: "result-x", SessionID: "abcdef12-0000"})
	svc.AddLocal(5, model.TestResult{
		ID:        "result-y",
		SessionID: "12345678-0000",
		Questions: []model.Question{{ID: "1"}},
		Answers:   map[string]model.Answer{"1": model.ScalarAnswer("10")},
	})

	r, ok := svc.LocalAttempt(5, "12345678")
	if !ok || r.ID != "result-y" || r.Answers["1"].Value != "10" {
		t.Errorf("LocalAttempt = %+v %v", r, ok)
	}
	if _, ok := svc.LocalAttempt(5, "abcdef12"); ok {
		t.Errorf("Результат без вопросов нельзя открыть для просмотра")
	}
	if _, ok := svc.LocalAttempt(6, "12345678"); ok {
		t.Errorf("Попытка другого чата не должна находиться")
	}
	if _, ok := svc.LocalAttempt(5, ""); ok {
		t.Errorf("Пустая метка не должна ничего находить")
	}
}

func TestTestResultsAndReview(t *testing.T) {
	api, closeFn := newServer(t, map[string]string{
		"/tests/7/results": `[{"id": 1, "student_id": 3, "student_name": "Іванов Іван", "group_name": "КН-1", "total_score": 8}]`,
		"/student/3/test/7": `{"studentId": 3, "testId": 7, "results": [
			{"question_id": 1, "question": "2+2?", "type": "single", "points": 2,
			 "selected_options": [4], "options": [{"id": 4, "text": "4", "is_correct": true}]},
			{"question_id": 2, "question": "Поясніть", "type": "essay", "answer_text": "бо так"}
		]}`,
	})
	defer closeFn()

	sess := newSession(t, api, `{"id":"8","role":"teacher"}`)
	svc := NewResultService(api, zap.NewNop())

	results, err := svc.TestResults(context.Background(), sess, model.Test{ID: "7", MaxScore: 10})
	if err != nil {
		t.Fatalf("TestResults вернул ошибку: %v", err)
	}
	want := model.StudentResult{StudentID: "3", StudentName: "Іванов Іван", Group: "КН-1", Score: 8, MaxScore: 10}
	if len(results) != 1 || results[0] != want {
		t.Errorf("Результаты %+v, ожидалось %+v", results, want)
	}

	answers, err := svc.StudentReview(context.Background(), sess, "3", "7")
	if err != nil {
		t.Fatalf("StudentReview вернул ошибку: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("Ожидалось 2 ответа, получено %d", len(answers))
	}
	if answers[0].SelectedOptions[0] != "4" || !answers[0].Options[0].IsCorrect {
		t.Errorf("Неверный ответ на выбор: %+v", answers[0])
	}
	if answers[1].Type != model.QuestionSingle || answers[1].AnswerText != "бо так" {
		t.Errorf("Неверный текстовый ответ: %+v", answers[1])
	}
}
