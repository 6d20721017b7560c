package model

const StatusCompleted = "completed"

// TestResult результат прохождения теста студентом
type TestResult struct {
	ID           string `json:"id"`
	TestID       string `json:"testId"`
	Subject      string `json:"subject"`
	Title        string `json:"title"`
	Lecturer     string `json:"lecturer"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Score        int    `json:"score"`
	MaxScore     int    `json:"maxScore"`
	Status       string `json:"status"`
	StudentName  string `json:"studentName"`
	StudentGroup string `json:"studentGroup"`
	CompletedAt  string `json:"completedAt"`
	// Unconfirmed выставляется для локально собранного результата, если отправка не удалась
	Unconfirmed bool `json:"-"`

	// Попытка, пройденная в этом чате: по ней строится просмотр истории
	SessionID string            `json:"-"`
	Questions []Question        `json:"-"`
	Answers   map[string]Answer `json:"-"`
}

// HasAttempt сообщает, что по результату можно открыть просмотр попытки
func (r TestResult) HasAttempt() bool {
	return r.SessionID != "" && len(r.Questions) > 0
}

// StudentResult строка таблицы результатов теста для преподавателя
type StudentResult struct {
	StudentID   string
	StudentName string
	Group       string
	Score       int
	MaxScore    int
	CompletedAt string
}

// StudentAnswer ответ студента на один вопрос при просмотре работы
type StudentAnswer struct {
	QuestionID      string
	Question        string
	Type            QuestionType
	Points          int
	AnswerText      string
	SelectedOptions []string
	Options         []Option
}
