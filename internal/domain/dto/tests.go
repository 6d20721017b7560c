package dto

import (
	"encoding/json"
	"strings"
)

// RawTest тест в том виде, в котором его отдает сервер (snake_case или camelCase)
type RawTest struct {
	ID            FlexString      `json:"id"`
	TestID        FlexString      `json:"test_id"`
	Subject       FlexString      `json:"subject"`
	Title         FlexString      `json:"title"`
	Lecturer      FlexString      `json:"lecturer"`
	TeacherName   FlexString      `json:"teacher_name"`
	StartAt       FlexString      `json:"start_at"`
	StartTime     FlexString      `json:"startTime"`
	EndAt         FlexString      `json:"end_at"`
	EndTime       FlexString      `json:"endTime"`
	TimeLimitMin  FlexInt         `json:"time_limit_min"`
	TimeLimit     FlexInt         `json:"timeLimit"`
	Duration      FlexInt         `json:"duration"`
	MaxScore      FlexInt         `json:"max_score"`
	MaxScoreCamel FlexInt         `json:"maxScore"`
	Status        FlexString      `json:"status"`
	Groups        json.RawMessage `json:"groups"`
}

func (r RawTest) GetID() string        { return firstString("", r.ID, r.TestID) }
func (r RawTest) GetLecturer() string  { return firstString("", r.Lecturer, r.TeacherName) }
func (r RawTest) GetStartTime() string { return firstString("", r.StartAt, r.StartTime) }
func (r RawTest) GetEndTime() string   { return firstString("", r.EndAt, r.EndTime) }

// GetDuration длительность в минутах, по умолчанию 30
func (r RawTest) GetDuration() int {
	d := firstInt(0, r.TimeLimitMin, r.TimeLimit, r.Duration)
	if d <= 0 {
		return 30
	}
	return d
}

func (r RawTest) GetMaxScore() int { return firstInt(0, r.MaxScore, r.MaxScoreCamel) }

// GetGroups разбирает список групп: массив, строка через запятую или пусто.
// corrupt=true, если поле присутствует, но не является ни массивом, ни строкой.
func (r RawTest) GetGroups() (groups []string, corrupt bool) {
	groups = []string{}
	raw := strings.TrimSpace(string(r.Groups))
	if raw == "" || raw == "null" {
		return groups, false
	}

	var list []FlexString
	if err := json.Unmarshal(r.Groups, &list); err == nil {
		for _, g := range list {
			if g.Present {
				groups = append(groups, g.Value)
			}
		}
		return groups, false
	}

	var s string
	if err := json.Unmarshal(r.Groups, &s); err == nil {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				groups = append(groups, part)
			}
		}
		return groups, false
	}

	return groups, true
}

// CorruptFields перечисляет поля, значения которых пришлось отбросить
func (r RawTest) CorruptFields() []string {
	var fields []string
	check := func(name string, corrupt bool) {
		if corrupt {
			fields = append(fields, name)
		}
	}
	check("id", r.ID.Corrupt)
	check("subject", r.Subject.Corrupt)
	check("title", r.Title.Corrupt)
	check("start_at", r.StartAt.Corrupt)
	check("end_at", r.EndAt.Corrupt)
	check("time_limit_min", r.TimeLimitMin.Corrupt)
	check("max_score", r.MaxScore.Corrupt)
	check("status", r.Status.Corrupt)
	return fields
}

// RawOption вариант ответа в ответе сервера
type RawOption struct {
	ID        FlexString `json:"id"`
	OptionID  FlexString `json:"option_id"`
	Text      FlexString `json:"text"`
	IsCorrect bool       `json:"is_correct"`
}

// RawQuestion вопрос в ответе сервера
type RawQuestion struct {
	QuestionID FlexString      `json:"question_id"`
	ID         FlexString      `json:"id"`
	QType      FlexString      `json:"q_type"`
	Type       FlexString      `json:"type"`
	Text       FlexString      `json:"text"`
	Question   FlexString      `json:"question"`
	Options    json.RawMessage `json:"options"`
	Points     FlexInt         `json:"points"`
}

func (r RawQuestion) GetID() string   { return firstString("", r.QuestionID, r.ID) }
func (r RawQuestion) GetType() string { return firstString("single", r.QType, r.Type) }
func (r RawQuestion) GetText() string { return firstString("", r.Text, r.Question) }

// GetPoints баллы за вопрос, по умолчанию 1
func (r RawQuestion) GetPoints() int { return r.Points.Or(1) }

// GetOptions разбирает варианты: массив или JSON-строка с массивом.
// corrupt=true, если поле есть, но разобрать его не удалось.
func (r RawQuestion) GetOptions() (options []RawOption, corrupt bool) {
	raw := strings.TrimSpace(string(r.Options))
	if raw == "" || raw == "null" {
		return nil, false
	}

	if err := json.Unmarshal(r.Options, &options); err == nil {
		return options, false
	}

	var encoded string
	if err := json.Unmarshal(r.Options, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &options); err == nil {
			return options, false
		}
	}

	return nil, true
}

// GroupResponse элемент ответа GET /groups
type GroupResponse struct {
	ID          FlexString `json:"id"`
	GroupCode   FlexString `json:"group_code"`
	GroupNumber FlexString `json:"group_number"`
}

// CheckSubmissionResponse ответ GET /submissions/check/{id}
type CheckSubmissionResponse struct {
	AlreadySubmitted bool `json:"alreadySubmitted"`
}
