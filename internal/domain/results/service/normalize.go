package service

import (
	"strings"

	"github.com/IT-Nick/veritasbot/internal/domain/dto"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
)

const (
	UnknownStudent  = "Невідомий студент"
	NoGroup         = "Без групи"
	defaultMaxScore = 100
)

// nonEmpty возвращает первое непустое значение
func nonEmpty(fields ...dto.FlexString) string {
	for _, f := range fields {
		if f.Present && f.Value != "" {
			return f.Value
		}
	}
	return ""
}

// nonZero возвращает первое ненулевое значение
func nonZero(fields ...dto.FlexInt) int {
	for _, f := range fields {
		if f.Present && f.Value != 0 {
			return f.Value
		}
	}
	return 0
}

func corruptString(name string, f dto.FlexString, corrupt []string) []string {
	if f.Corrupt {
		return append(corrupt, name)
	}
	return corrupt
}

func corruptInt(name string, f dto.FlexInt, corrupt []string) []string {
	if f.Corrupt {
		return append(corrupt, name)
	}
	return corrupt
}

// NormalizeResult приводит запись аналитики или "моих результатов" к модели
func NormalizeResult(raw dto.RawResult) (result model.TestResult, corrupt []string) {
	corrupt = corruptInt("score", raw.Score, corrupt)
	corrupt = corruptInt("maxScore", raw.MaxScore, corrupt)
	corrupt = corruptString("completedAt", raw.CompletedAt, corrupt)

	result = model.TestResult{
		ID:           raw.ID.Value,
		TestID:       nonEmpty(raw.TestID, raw.TestIDSnake),
		Subject:      raw.Subject.Value,
		Title:        raw.Title.Value,
		Lecturer:     raw.Lecturer.Value,
		StartTime:    raw.StartTime.Value,
		EndTime:      nonEmpty(raw.EndTime, raw.EndAt),
		Score:        nonZero(raw.Score, raw.TotalScore),
		MaxScore:     nonZero(raw.MaxScore, raw.MaxScoreSn),
		Status:       model.StatusCompleted,
		StudentName:  raw.StudentName.Value,
		StudentGroup: nonEmpty(raw.StudentGroup, raw.GroupName),
		CompletedAt:  nonEmpty(raw.CompletedAt, raw.CompletedSn, raw.SubmittedAt),
	}
	return result, corrupt
}

// NormalizeStudentResult приводит строку результатов теста. testMaxScore
// используется, если сервер не прислал максимум.
func NormalizeStudentResult(raw dto.RawStudentResult, testMaxScore int) (result model.StudentResult, corrupt []string) {
	corrupt = corruptInt("score", raw.Score, corrupt)
	corrupt = corruptInt("max_score", raw.MaxScore, corrupt)

	maxScore := nonZero(raw.MaxScore)
	if maxScore == 0 {
		maxScore = testMaxScore
	}
	if maxScore == 0 {
		maxScore = defaultMaxScore
	}

	name := nonEmpty(raw.StudentName, raw.StudentNameC)
	if name == "" {
		name = UnknownStudent
	}
	group := nonEmpty(raw.GroupName, raw.StudentGroup)
	if group == "" {
		group = NoGroup
	}

	result = model.StudentResult{
		StudentID:   firstPresent(raw.StudentID, raw.StudentIDC, raw.UserID),
		StudentName: name,
		Group:       group,
		Score:       nonZero(raw.Score, raw.TotalScore),
		MaxScore:    maxScore,
		CompletedAt: nonEmpty(raw.CompletedAt, raw.SubmittedAt, raw.CreatedAt),
	}
	return result, corrupt
}

// firstPresent как ?? : пустая строка тоже считается значением
func firstPresent(fields ...dto.FlexString) string {
	for _, f := range fields {
		if f.Present {
			return f.Value
		}
	}
	return ""
}

// NormalizeReview приводит ответы студента к модели. Неизвестный тип вопроса считается single.
func NormalizeReview(rows []dto.RawReview) []model.StudentAnswer {
	answers := make([]model.StudentAnswer, 0, len(rows))
	for _, row := range rows {
		selected := make([]string, 0, len(row.SelectedOptions))
		for _, s := range row.SelectedOptions {
			if s.Present {
				selected = append(selected, s.Value)
			}
		}

		options := make([]model.Option, 0, len(row.Options))
		for _, o := range row.Options {
			options = append(options, model.Option{
				ID:        o.ID.Or(o.OptionID.Value),
				Text:      o.Text.Value,
				IsCorrect: o.IsCorrect,
			})
		}

		qType := model.QuestionType(strings.TrimSpace(row.Type.Value))
		switch qType {
		case model.QuestionSingle, model.QuestionMultiple, model.QuestionText:
		default:
			qType = model.QuestionSingle
		}

		answers = append(answers, model.StudentAnswer{
			QuestionID:      row.QuestionID.Value,
			Question:        row.Question.Value,
			Type:            qType,
			Points:          row.Points.Value,
			AnswerText:      row.AnswerText.Value,
			SelectedOptions: selected,
			Options:         options,
		})
	}
	return answers
}
