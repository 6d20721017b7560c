package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IT-Nick/veritasbot/internal/domain/dto"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"github.com/google/uuid"
)

const (
	DefaultTimeLimit = 30
	DefaultMaxScore  = 100
	DefaultPoints    = 1

	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

var (
	ErrEmptyPrompt      = errors.New("question prompt is empty")
	ErrNoKeywords       = errors.New("text question has no keywords")
	ErrNoCorrectAnswer  = errors.New("no correct answer selected")
	ErrIncompleteTest   = errors.New("subject, title or questions are missing")
	ErrIncompletePeriod = errors.New("start or end date is missing")
)

var messages = map[error]string{
	ErrEmptyPrompt:      "Введіть текст питання!",
	ErrNoKeywords:       "Введіть хоча б одне ключове слово!",
	ErrNoCorrectAnswer:  "Оберіть хоча б одну правильну відповідь!",
	ErrIncompleteTest:   "Заповніть назву, предмет та додайте хоча б одне питання",
	ErrIncompletePeriod: "Оберіть дату і час початку та завершення тесту",
}

// Message текст ошибки проверки для пользователя, "" для прочих ошибок
func Message(err error) string {
	for target, msg := range messages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return ""
}

// Draft вопрос, который преподаватель еще редактирует.
// Для текстового вопроса Options хранит ключевые слова.
type Draft struct {
	Type    model.QuestionType
	Prompt  string
	Options []string
	Correct []int
	Points  int
}

// NewDraft пустой вопрос с одним выбором и двумя пустыми вариантами
func NewDraft() Draft {
	return Draft{
		Type:    model.QuestionSingle,
		Options: []string{"", ""},
		Points:  DefaultPoints,
	}
}

// ToggleCorrect отмечает вариант правильным. Пустые варианты не отмечаются,
// у single остается один правильный вариант, у multiple отметка переключается.
func (d *Draft) ToggleCorrect(index int) {
	if index < 0 || index >= len(d.Options) || strings.TrimSpace(d.Options[index]) == "" {
		return
	}
	switch d.Type {
	case model.QuestionSingle:
		d.Correct = []int{index}
	case model.QuestionMultiple:
		for i, c := range d.Correct {
			if c == index {
				d.Correct = append(d.Correct[:i:i], d.Correct[i+1:]...)
				return
			}
		}
		d.Correct = append(d.Correct, index)
	}
}

// Question вопрос, добавленный в тест. Correct содержит тексты правильных
// вариантов или ключевые слова.
type Question struct {
	ID      string
	Type    model.QuestionType
	Prompt  string
	Options []string
	Correct []string
	Points  int
}

// Form собираемый тест
type Form struct {
	Subject   string
	Title     string
	TimeLimit int
	MaxScore  int
	GroupIDs  []int
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
	Questions []Question
}

func NewForm() *Form {
	return &Form{
		TimeLimit: DefaultTimeLimit,
		MaxScore:  DefaultMaxScore,
	}
}

// AddQuestion проверяет черновик и добавляет вопрос в тест
func (f *Form) AddQuestion(d Draft) (Question, error) {
	if strings.TrimSpace(d.Prompt) == "" {
		return Question{}, ErrEmptyPrompt
	}

	q := Question{
		ID:     uuid.NewString(),
		Type:   d.Type,
		Prompt: d.Prompt,
		Points: d.Points,
	}

	if d.Type == model.QuestionText {
		for _, w := range d.Options {
			if w = strings.TrimSpace(w); w != "" {
				q.Correct = append(q.Correct, w)
			}
		}
		if len(q.Correct) == 0 {
			return Question{}, ErrNoKeywords
		}
	} else {
		if len(d.Correct) == 0 {
			return Question{}, ErrNoCorrectAnswer
		}
		for _, idx := range d.Correct {
			if idx < 0 || idx >= len(d.Options) || strings.TrimSpace(d.Options[idx]) == "" {
				continue
			}
			q.Correct = append(q.Correct, d.Options[idx])
		}
		for _, opt := range d.Options {
			if strings.TrimSpace(opt) != "" {
				q.Options = append(q.Options, opt)
			}
		}
	}

	f.Questions = append(f.Questions, q)
	return q, nil
}

// RemoveQuestion удаляет вопрос по идентификатору
func (f *Form) RemoveQuestion(id string) bool {
	for i, q := range f.Questions {
		if q.ID == id {
			f.Questions = append(f.Questions[:i], f.Questions[i+1:]...)
			return true
		}
	}
	return false
}

func (f *Form) TotalPoints() int {
	total := 0
	for _, q := range f.Questions {
		total += q.Points
	}
	return total
}

// ScoreMismatch сообщает, что заявленный максимум не равен сумме баллов вопросов
func (f *Form) ScoreMismatch() bool {
	return f.MaxScore != f.TotalPoints()
}

// Validate проверяет обязательные поля перед сохранением
func (f *Form) Validate() error {
	if f.Subject == "" || f.Title == "" || len(f.Questions) == 0 {
		return ErrIncompleteTest
	}
	if f.StartDate == "" || f.StartTime == "" || f.EndDate == "" || f.EndTime == "" {
		return ErrIncompletePeriod
	}
	return nil
}

// LocalToUTC переводит дату и время, введенные в loc, в UTC "YYYY-MM-DD" и "HH:MM"
func LocalToUTC(date, clock string, loc *time.Location) (string, string, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dateLayout+" "+clockLayout, date+" "+clock, loc)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse date %q %q: %w", date, clock, err)
	}
	t = t.UTC()
	return t.Format(dateLayout), t.Format(clockLayout), nil
}

// Payload собирает тело POST /tests
func (f *Form) Payload(createdBy int, loc *time.Location) (dto.CreateTestRequest, error) {
	if err := f.Validate(); err != nil {
		return dto.CreateTestRequest{}, err
	}
	startDate, startTime, err := LocalToUTC(f.StartDate, f.StartTime, loc)
	if err != nil {
		return dto.CreateTestRequest{}, err
	}
	endDate, endTime, err := LocalToUTC(f.EndDate, f.EndTime, loc)
	if err != nil {
		return dto.CreateTestRequest{}, err
	}

	groups := f.GroupIDs
	if groups == nil {
		groups = []int{}
	}

	req := dto.CreateTestRequest{
		Title:        f.Title,
		Subject:      f.Subject,
		TimeLimitMin: f.TimeLimit,
		CreatedBy:    createdBy,
		MaxScore:     f.MaxScore,
		Status:       model.StatusPublished,
		StartDate:    startDate,
		StartTime:    startTime,
		EndDate:      endDate,
		EndTime:      endTime,
		GroupIDs:     groups,
		Questions:    make([]dto.CreateQuestionPayload, 0, len(f.Questions)),
	}
	for _, q := range f.Questions {
		p := dto.CreateQuestionPayload{
			Question: q.Prompt,
			Type:     string(q.Type),
			Points:   q.Points,
		}
		if q.Type == model.QuestionText {
			p.Keywords = q.Correct
		} else {
			p.Options = q.Options
			p.CorrectOptions = q.Correct
		}
		req.Questions = append(req.Questions, p)
	}
	return req, nil
}
