package service

import (
	"github.com/IT-Nick/veritasbot/internal/domain/dto"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
)

// NormalizeTest приводит тест из ответа сервера к модели. corrupt перечисляет поля,
// значения которых были отброшены в пользу значений по умолчанию.
func NormalizeTest(raw dto.RawTest) (test model.Test, corrupt []string) {
	groups, badGroups := raw.GetGroups()
	corrupt = raw.CorruptFields()
	if badGroups {
		corrupt = append(corrupt, "groups")
	}

	test = model.Test{
		ID:        raw.GetID(),
		Subject:   raw.Subject.Or(""),
		Title:     raw.Title.Or(""),
		Lecturer:  raw.GetLecturer(),
		StartTime: raw.GetStartTime(),
		EndTime:   raw.GetEndTime(),
		Duration:  raw.GetDuration(),
		MaxScore:  raw.GetMaxScore(),
		Groups:    groups,
		Status:    raw.Status.Or(model.StatusPublished),
	}
	return test, corrupt
}

// NormalizeQuestion приводит вопрос к модели. Неизвестный тип вопроса считается single.
func NormalizeQuestion(raw dto.RawQuestion) (question model.Question, corrupt []string) {
	rawOptions, badOptions := raw.GetOptions()
	if badOptions {
		corrupt = append(corrupt, "options")
	}
	if raw.Points.Corrupt {
		corrupt = append(corrupt, "points")
	}

	options := make([]model.Option, 0, len(rawOptions))
	for _, o := range rawOptions {
		options = append(options, model.Option{
			ID:        o.ID.Or(o.OptionID.Value),
			Text:      o.Text.Value,
			IsCorrect: o.IsCorrect,
		})
	}

	qType := model.QuestionType(raw.GetType())
	switch qType {
	case model.QuestionSingle, model.QuestionMultiple, model.QuestionText:
	default:
		corrupt = append(corrupt, "type")
		qType = model.QuestionSingle
	}

	question = model.Question{
		ID:      raw.GetID(),
		Type:    qType,
		Text:    raw.GetText(),
		Options: options,
		Points:  raw.GetPoints(),
	}
	return question, corrupt
}
