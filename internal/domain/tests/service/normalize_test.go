package service

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/IT-Nick/veritasbot/internal/domain/dto"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
)

func decodeTest(t *testing.T, body string) dto.RawTest {
	t.Helper()
	var raw dto.RawTest
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("не удалось разобрать тест: %v", err)
	}
	return raw
}

func decodeQuestion(t *testing.T, body string) dto.RawQuestion {
	t.Helper()
	var raw dto.RawQuestion
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("не удалось разобрать вопрос: %v", err)
	}
	return raw
}

func TestNormalizeTest_Defaults(t *testing.T) {
	test, corrupt := NormalizeTest(decodeTest(t, `{"id": 12, "title": "Модуль 1"}`))

	if test.ID != "12" {
		t.Errorf("Числовой id должен стать строкой, получено %q", test.ID)
	}
	if test.Duration != 30 {
		t.Errorf("Длительность по умолчанию 30, получено %d", test.Duration)
	}
	if test.Status != model.StatusPublished {
		t.Errorf("Статус по умолчанию published, получено %q", test.Status)
	}
	if test.MaxScore != 0 || test.Subject != "" {
		t.Errorf("Неверные значения по умолчанию: %+v", test)
	}
	if test.Groups == nil || len(test.Groups) != 0 {
		t.Errorf("Группы по умолчанию - пустой список, получено %#v", test.Groups)
	}
	if len(corrupt) != 0 {
		t.Errorf("Поврежденных полей быть не должно: %v", corrupt)
	}
}

func TestNormalizeTest_GroupShapes(t *testing.T) {
	cases := []struct {
		body    string
		want    []string
		corrupt bool
	}{
		{`{"groups": "КН-21, КН-22,, "}`, []string{"КН-21", "КН-22"}, false},
		{`{"groups": ["КН-21", 22]}`, []string{"КН-21", "22"}, false},
		{`{"groups": {"a": 1}}`, []string{}, true},
		{`{"groups": null}`, []string{}, false},
	}

	for _, tc := range cases {
		test, corrupt := NormalizeTest(decodeTest(t, tc.body))
		if !reflect.DeepEqual(test.Groups, tc.want) {
			t.Errorf("%s: ожидалось %v, получено %v", tc.body, tc.want, test.Groups)
		}
		if (len(corrupt) > 0) != tc.corrupt {
			t.Errorf("%s: поврежденные поля %v", tc.body, corrupt)
		}
	}
}

func TestNormalizeTest_SnakeAndCamel(t *testing.T) {
	test, _ := NormalizeTest(decodeTest(t, `{
		"id": "7", "subject": "Фізика", "start_at": "2025-01-10 09:00:00",
		"endTime": "2025-01-10T10:00:00Z", "time_limit_min": "45", "max_score": 20
	}`))

	if test.StartTime != "2025-01-10 09:00:00" || test.EndTime != "2025-01-10T10:00:00Z" {
		t.Errorf("Неверное время: %q - %q", test.StartTime, test.EndTime)
	}
	if test.Duration != 45 || test.MaxScore != 20 {
		t.Errorf("Неверные числа: duration=%d max=%d", test.Duration, test.MaxScore)
	}
}

func TestNormalizeTest_CorruptNumber(t *testing.T) {
	test, corrupt := NormalizeTest(decodeTest(t, `{"id": 1, "time_limit_min": "abc"}`))
	if test.Duration != 30 {
		t.Errorf("Поврежденная длительность должна замениться на 30, получено %d", test.Duration)
	}
	if !reflect.DeepEqual(corrupt, []string{"time_limit_min"}) {
		t.Errorf("Ожидалось поврежденное поле time_limit_min, получено %v", corrupt)
	}
}

func TestNormalizeQuestion(t *testing.T) {
	q, corrupt := NormalizeQuestion(decodeQuestion(t, `{
		"question_id": 5, "id": 99, "q_type": "multiple", "text": "Оберіть",
		"options": "[{\"id\": 1, \"text\": \"А\", \"is_correct\": true}, {\"id\": 2, \"text\": \"Б\"}]"
	}`))

	if q.ID != "5" {
		t.Errorf("question_id имеет приоритет над id, получено %q", q.ID)
	}
	if q.Type != model.QuestionMultiple || q.Text != "Оберіть" {
		t.Errorf("Неверный тип или текст: %+v", q)
	}
	if q.Points != 1 {
		t.Errorf("Баллы по умолчанию 1, получено %d", q.Points)
	}
	if len(q.Options) != 2 || q.Options[0].ID != "1" || !q.Options[0].IsCorrect {
		t.Errorf("Варианты из JSON-строки разобраны неверно: %+v", q.Options)
	}
	if len(corrupt) != 0 {
		t.Errorf("Поврежденных полей быть не должно: %v", corrupt)
	}
}

func TestNormalizeQuestion_Fallbacks(t *testing.T) {
	q, corrupt := NormalizeQuestion(decodeQuestion(t, `{"id": 3, "question": "Що?", "options": "not json", "points": 4}`))

	if q.ID != "3" || q.Type != model.QuestionSingle || q.Text != "Що?" || q.Points != 4 {
		t.Errorf("Неверный вопрос: %+v", q)
	}
	if len(q.Options) != 0 {
		t.Errorf("Неразборчивые варианты должны дать пустой список, получено %+v", q.Options)
	}
	if !reflect.DeepEqual(corrupt, []string{"options"}) {
		t.Errorf("Ожидалось поврежденное поле options, получено %v", corrupt)
	}
}
