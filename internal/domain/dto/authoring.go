package dto

// CreateTestRequest тело POST /tests
type CreateTestRequest struct {
	Title        string                  `json:"title"`
	Subject      string                  `json:"subject"`
	TimeLimitMin int                     `json:"time_limit_min"`
	CreatedBy    int                     `json:"created_by"`
	MaxScore     int                     `json:"max_score"`
	Status       string                  `json:"status"`
	StartDate    string                  `json:"startDate"`
	StartTime    string                  `json:"startTime"`
	EndDate      string                  `json:"endDate"`
	EndTime      string                  `json:"endTime"`
	GroupIDs     []int                   `json:"group_ids"`
	Questions    []CreateQuestionPayload `json:"questions"`
}

type CreateQuestionPayload struct {
	Question       string   `json:"question"`
	Type           string   `json:"type"`
	Points         int      `json:"points"`
	Options        []string `json:"options,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	CorrectOptions []string `json:"correct_options,omitempty"`
}
