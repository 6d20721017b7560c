package report

import (
	"bytes"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/IT-Nick/veritasbot/internal/domain/model"
)

func TestAnswerLines(t *testing.T) {
	choice := model.StudentAnswer{
		Type:            model.QuestionMultiple,
		SelectedOptions: []string{"2"},
		Options: []model.Option{
			{ID: "1", Text: "2", IsCorrect: true},
			{ID: "2", Text: "3"},
		},
	}
	want := []string{"[ ] 2 (правильна)", "[x] 3"}
	if got := AnswerLines(choice); !reflect.DeepEqual(got, want) {
		t.Errorf("AnswerLines = %v, ожидалось %v", got, want)
	}

	text := model.StudentAnswer{Type: model.QuestionText, AnswerText: "  "}
	if got := AnswerLines(text); got[0] != "Відповідь: —" {
		t.Errorf("Пустой ответ: %v", got)
	}
}

func TestGenerateReview_MissingFonts(t *testing.T) {
	g := NewGenerator(t.TempDir())
	if g.Available() {
		t.Fatal("В пустом каталоге шрифтов нет")
	}
	if _, _, err := g.GenerateReview(ReviewData{}); !errors.Is(err, ErrFontsMissing) {
		t.Errorf("Ожидалась ErrFontsMissing, получено %v", err)
	}
}

func TestGenerateReview(t *testing.T) {
	dir := os.Getenv("VERITAS_FONT_DIR")
	g := NewGenerator(dir)
	if dir == "" || !g.Available() {
		t.Skip("VERITAS_FONT_DIR не задан или в нем нет DejaVuSans")
	}

	data, name, err := g.GenerateReview(ReviewData{
		StudentID:   "3",
		StudentName: "Іванов Іван",
		TestTitle:   "Модуль 1",
		Answers: []model.StudentAnswer{
			{Question: "Столиця?", Type: model.QuestionText, AnswerText: "Київ", Points: 1},
		},
	})
	if err != nil {
		t.Fatalf("GenerateReview вернул ошибку: %v", err)
	}
	if name != "review_3.pdf" {
		t.Errorf("Имя файла %q", name)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("Результат не похож на PDF")
	}
}

func TestText(t *testing.T) {
	text := Text(ReviewData{
		StudentName: "Шевченко Тарас",
		Group:       "КН-21",
		TestTitle:   "Алгебра",
		Subject:     "Математика",
		Score:       1,
		MaxScore:    2,
		Answers: []model.StudentAnswer{
			{Question: "Столиця?", Type: model.QuestionText, AnswerText: "Київ", Points: 1},
		},
	})

	if !strings.Contains(text, "Алгебра (Математика): 1 з 2") {
		t.Errorf("Нет заголовка отчета: %q", text)
	}
	if !strings.HasSuffix(text, "Відповідь: Київ") {
		t.Errorf("Отчет должен заканчиваться ответом: %q", text)
	}
}
