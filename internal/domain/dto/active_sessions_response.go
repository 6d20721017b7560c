package dto

// ActiveSessionsResponse отчет по активным сессиям тестирования
type ActiveSessionsResponse struct {
	TotalActiveSessions int                 `json:"total_active_sessions"`
	Sessions            []ActiveSessionInfo `json:"sessions"`
}

type ActiveSessionInfo struct {
	ChatID         int64  `json:"chat_id"`
	SessionID      string `json:"session_id"`
	TestID         string `json:"test_id"`
	TestTitle      string `json:"test_title"`
	Subject        string `json:"subject"`
	State          string `json:"state"`
	Answered       int    `json:"answered"`
	TotalQuestions int    `json:"total_questions"`
	RemainingTime  string `json:"remaining_time"`
}
