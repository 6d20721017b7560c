package model

const StatusPublished = "published"

// Test описание теста из каталога. Время начала и окончания хранится в том виде,
// в котором его прислал сервер.
type Test struct {
	ID        string   `json:"id"`
	Subject   string   `json:"subject"`
	Title     string   `json:"title"`
	Lecturer  string   `json:"lecturer"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Duration  int      `json:"duration"`
	MaxScore  int      `json:"maxScore"`
	Groups    []string `json:"groups"`
	Status    string   `json:"status"`
}
