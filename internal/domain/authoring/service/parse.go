package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/IT-Nick/veritasbot/internal/domain/model"
)

// ErrHeaderFormat заголовок теста не соответствует формату
// "предмет | назва | хвилини | макс. бал | YYYY-MM-DD HH:MM | YYYY-MM-DD HH:MM | групи"
var ErrHeaderFormat = errors.New("invalid test header")

// ErrDraftFormat вопрос не соответствует формату
var ErrDraftFormat = errors.New("invalid question format")

// ParseHeader заполняет параметры теста из строки, поля разделены "|".
// Список групп (идентификаторы через запятую) можно не указывать.
func ParseHeader(line string, f *Form) error {
	parts := strings.Split(line, "|")
	if len(parts) < 6 {
		return ErrHeaderFormat
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	timeLimit, err := strconv.Atoi(parts[2])
	if err != nil || timeLimit <= 0 {
		return fmt.Errorf("%w: time limit %q", ErrHeaderFormat, parts[2])
	}
	maxScore, err := strconv.Atoi(parts[3])
	if err != nil || maxScore < 0 {
		return fmt.Errorf("%w: max score %q", ErrHeaderFormat, parts[3])
	}
	startDate, startTime, ok := splitDateTime(parts[4])
	if !ok {
		return fmt.Errorf("%w: start %q", ErrHeaderFormat, parts[4])
	}
	endDate, endTime, ok := splitDateTime(parts[5])
	if !ok {
		return fmt.Errorf("%w: end %q", ErrHeaderFormat, parts[5])
	}

	var groups []int
	if len(parts) > 6 && parts[6] != "" {
		for _, g := range strings.Split(parts[6], ",") {
			id, err := strconv.Atoi(strings.TrimSpace(g))
			if err != nil {
				return fmt.Errorf("%w: group %q", ErrHeaderFormat, g)
			}
			groups = append(groups, id)
		}
	}

	f.Subject = parts[0]
	f.Title = parts[1]
	f.TimeLimit = timeLimit
	f.MaxScore = maxScore
	f.StartDate, f.StartTime = startDate, startTime
	f.EndDate, f.EndTime = endDate, endTime
	f.GroupIDs = groups
	return nil
}

func splitDateTime(s string) (date, clock string, ok bool) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

// ParseDraft разбирает вопрос из сообщения:
//
//	single 2
//	Текст питання
//	+правильний варіант
//	неправильний варіант
//
// Первая строка: тип (single, multiple, text) и баллы (по умолчанию 1).
// Для text остальные строки содержат ключевые слова, можно через запятую.
func ParseDraft(text string) (Draft, error) {
	lines := make([]string, 0)
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 1 {
		return Draft{}, ErrDraftFormat
	}

	d := NewDraft()
	d.Options = nil

	head := strings.Fields(lines[0])
	d.Type = model.QuestionType(strings.ToLower(head[0]))
	switch d.Type {
	case model.QuestionSingle, model.QuestionMultiple, model.QuestionText:
	default:
		return Draft{}, fmt.Errorf("%w: type %q", ErrDraftFormat, head[0])
	}
	if len(head) > 1 {
		points, err := strconv.Atoi(head[1])
		if err != nil || points <= 0 {
			return Draft{}, fmt.Errorf("%w: points %q", ErrDraftFormat, head[1])
		}
		d.Points = points
	}

	if len(lines) > 1 {
		d.Prompt = lines[1]
	}

	for _, l := range lines[min(2, len(lines)):] {
		if d.Type == model.QuestionText {
			d.Options = append(d.Options, strings.Split(l, ",")...)
			continue
		}
		correct := strings.HasPrefix(l, "+")
		d.Options = append(d.Options, strings.TrimSpace(strings.TrimLeft(l, "+-")))
		if correct {
			d.ToggleCorrect(len(d.Options) - 1)
		}
	}
	return d, nil
}
