package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"github.com/jung-kurt/gofpdf"
)

const (
	fontFamily  = "DejaVu"
	fontRegular = "DejaVuSans.ttf"
	fontBold    = "DejaVuSans-Bold.ttf"
)

// ErrFontsMissing в каталоге шрифтов нет DejaVuSans, кириллицу вывести нечем
var ErrFontsMissing = errors.New("report fonts are missing")

// ReviewData данные для отчета по ответам студента
type ReviewData struct {
	StudentID   string
	StudentName string
	Group       string
	TestTitle   string
	Subject     string
	Score       int
	MaxScore    int
	Answers     []model.StudentAnswer
}

// Generator формирует PDF-отчеты. FontDir - каталог с DejaVuSans.ttf и DejaVuSans-Bold.ttf.
type Generator struct {
	FontDir string
}

func NewGenerator(fontDir string) *Generator {
	return &Generator{FontDir: fontDir}
}

// Available сообщает, есть ли шрифты для отчета
func (g *Generator) Available() bool {
	for _, f := range []string{fontRegular, fontBold} {
		if _, err := os.Stat(filepath.Join(g.FontDir, f)); err != nil {
			return false
		}
	}
	return true
}

// GenerateReview формирует PDF с ответами студента и возвращает его содержимое и имя файла.
// Отчет формируется в виде непрерывного текста с переносами (без таблицы).
func (g *Generator) GenerateReview(r ReviewData) ([]byte, string, error) {
	if !g.Available() {
		return nil, "", fmt.Errorf("%w in %q", ErrFontsMissing, g.FontDir)
	}

	pdf := gofpdf.New("P", "mm", "A4", g.FontDir)
	pdf.AddUTF8Font(fontFamily, "", fontRegular)
	pdf.AddUTF8Font(fontFamily, "B", fontBold)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.MultiCell(0, 10, "Відповіді студента", "", "L", false)
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "", 12)
	info := fmt.Sprintf("Студент: %s\nГрупа: %s\nТест: %s\nПредмет: %s\nРезультат: %d з %d\n",
		r.StudentName, r.Group, r.TestTitle, r.Subject, r.Score, r.MaxScore)
	pdf.MultiCell(0, 8, info, "", "L", false)
	pdf.Ln(4)

	for i, a := range r.Answers {
		pdf.SetFont(fontFamily, "B", 12)
		pdf.MultiCell(0, 8, fmt.Sprintf("Питання %d (%d б.):", i+1, a.Points), "", "L", false)

		pdf.SetFont(fontFamily, "", 12)
		pdf.MultiCell(0, 8, a.Question, "", "L", false)
		pdf.Ln(2)
		pdf.MultiCell(0, 8, strings.Join(AnswerLines(a), "\n"), "", "L", false)
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), Filename(r), nil
}

// AnswerLines строки ответа: текст для открытого вопроса, варианты с отметками для выбора
func AnswerLines(a model.StudentAnswer) []string {
	if a.Type == model.QuestionText {
		answer := strings.TrimSpace(a.AnswerText)
		if answer == "" {
			answer = "—"
		}
		return []string{"Відповідь: " + answer}
	}

	selected := make(map[string]struct{}, len(a.SelectedOptions))
	for _, id := range a.SelectedOptions {
		selected[id] = struct{}{}
	}

	lines := make([]string, 0, len(a.Options))
	for _, o := range a.Options {
		mark := "[ ]"
		if _, ok := selected[o.ID]; ok {
			mark = "[x]"
		}
		line := mark + " " + o.Text
		if o.IsCorrect {
			line += " (правильна)"
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, "Відповідь: —")
	}
	return lines
}

// Filename имя файла отчета
func Filename(r ReviewData) string {
	if r.StudentID != "" {
		return "review_" + r.StudentID + ".pdf"
	}
	return "review.pdf"
}

// Text отчет простым текстом, если PDF сформировать нельзя
func Text(r ReviewData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s, %s\n%s (%s): %d з %d\n", r.StudentName, r.Group, r.TestTitle, r.Subject, r.Score, r.MaxScore)
	for i, a := range r.Answers {
		fmt.Fprintf(&sb, "\n%d. %s (%d б.)\n%s\n", i+1, a.Question, a.Points, strings.Join(AnswerLines(a), "\n"))
	}
	return strings.TrimRight(sb.String(), "\n")
}
