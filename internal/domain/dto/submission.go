package dto

// SubmissionRequest тело POST /submissions
type SubmissionRequest struct {
	TestID    int             `json:"test_id"`
	StudentID int             `json:"student_id"`
	Answers   []AnswerPayload `json:"answers"`
}

// AnswerPayload ответ на один вопрос. AnswerText = nil для вопросов с вариантами.
type AnswerPayload struct {
	QuestionID        int     `json:"question_id"`
	SelectedOptionIDs []int   `json:"selected_option_ids"`
	AnswerText        *string `json:"answer_text"`
}

// SubmissionResponse ответ сервера с итоговым баллом
type SubmissionResponse struct {
	TotalScore FlexInt `json:"total_score"`
}
