package dto

import "encoding/json"

// RawResult результат теста для аналитики и списка "мои результаты"
type RawResult struct {
	ID           FlexString `json:"id"`
	TestID       FlexString `json:"testId"`
	TestIDSnake  FlexString `json:"test_id"`
	Subject      FlexString `json:"subject"`
	Title        FlexString `json:"title"`
	Lecturer     FlexString `json:"lecturer"`
	StartTime    FlexString `json:"startTime"`
	EndTime      FlexString `json:"endTime"`
	EndAt        FlexString `json:"end_at"`
	Score        FlexInt    `json:"score"`
	TotalScore   FlexInt    `json:"total_score"`
	MaxScore     FlexInt    `json:"maxScore"`
	MaxScoreSn   FlexInt    `json:"max_score"`
	StudentName  FlexString `json:"studentName"`
	StudentGroup FlexString `json:"studentGroup"`
	GroupName    FlexString `json:"group_name"`
	CompletedAt  FlexString `json:"completedAt"`
	CompletedSn  FlexString `json:"completed_at"`
	SubmittedAt  FlexString `json:"submitted_at"`
}

// StudentAnalyticsResponse ответ GET /student/analytics/{id}: массив или объект с allResults/results
type StudentAnalyticsResponse struct {
	Results []RawResult
}

func (r *StudentAnalyticsResponse) UnmarshalJSON(data []byte) error {
	var list []RawResult
	if err := json.Unmarshal(data, &list); err == nil {
		r.Results = list
		return nil
	}
	var wrapped struct {
		AllResults []RawResult `json:"allResults"`
		Results    []RawResult `json:"results"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	if wrapped.AllResults != nil {
		r.Results = wrapped.AllResults
	} else {
		r.Results = wrapped.Results
	}
	return nil
}

// RawStudentResult строка ответа GET /tests/{id}/results
type RawStudentResult struct {
	ID           FlexString `json:"id"`
	SubmissionID FlexString `json:"submission_id"`
	StudentID    FlexString `json:"student_id"`
	StudentIDC   FlexString `json:"studentId"`
	UserID       FlexString `json:"user_id"`
	StudentName  FlexString `json:"student_name"`
	StudentNameC FlexString `json:"studentName"`
	GroupName    FlexString `json:"group_name"`
	StudentGroup FlexString `json:"studentGroup"`
	Score        FlexInt    `json:"score"`
	TotalScore   FlexInt    `json:"total_score"`
	MaxScore     FlexInt    `json:"max_score"`
	CompletedAt  FlexString `json:"completed_at"`
	SubmittedAt  FlexString `json:"submitted_at"`
	CreatedAt    FlexString `json:"created_at"`
}

// ReviewResponse ответ GET /student/{studentId}/test/{testId}
type ReviewResponse struct {
	StudentID FlexString  `json:"studentId"`
	TestID    FlexString  `json:"testId"`
	Results   []RawReview `json:"results"`
}

type RawReview struct {
	QuestionID      FlexString   `json:"question_id"`
	Question        FlexString   `json:"question"`
	Type            FlexString   `json:"type"`
	Points          FlexInt      `json:"points"`
	AnswerText      FlexString   `json:"answer_text"`
	SelectedOptions []FlexString `json:"selected_options"`
	Options         []RawOption  `json:"options"`
}
