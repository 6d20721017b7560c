package model

type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
	QuestionText     QuestionType = "text"
)

// Option вариант ответа
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question представляет вопрос теста
type Question struct {
	ID      string       `json:"id"`
	Type    QuestionType `json:"type"`
	Text    string       `json:"text"`
	Options []Option     `json:"options"`
	Points  int          `json:"points"`
}

// Answer ответ на вопрос: одно значение (single, text) или список (multiple)
type Answer struct {
	Value  string
	Values []string
	IsList bool
}

func ScalarAnswer(value string) Answer {
	return Answer{Value: value}
}

func ListAnswer(values []string) Answer {
	return Answer{Values: append([]string(nil), values...), IsList: true}
}

// Strings возвращает выбранные значения: список как есть, непустой скаляр как список из одного элемента
func (a Answer) Strings() []string {
	if a.IsList {
		return append([]string(nil), a.Values...)
	}
	if a.Value == "" {
		return nil
	}
	return []string{a.Value}
}

// Contains проверяет, выбран ли вариант
func (a Answer) Contains(id string) bool {
	for _, v := range a.Strings() {
		if v == id {
			return true
		}
	}
	return false
}
