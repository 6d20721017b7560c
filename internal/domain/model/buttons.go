package model

// Уникальные ключи inline-кнопок. Привязаны к обработчикам в app.bootstrapHandlersTelegram,
// не следует менять константы без изменения регистрации.
const (
	StartTestKey   = "start_test"
	AnswerKey      = "answer"
	TextAnswerKey  = "text_answer"
	FinishTestKey  = "finish_test"
	TestResultsKey = "test_results"
	ReviewKey      = "review"
	MyTestsKey     = "my_tests"
	MyResultsKey   = "my_results"
	AnalyticsKey   = "analytics"
	NewTestKey     = "new_test"
	SettingsKey    = "settings"
	ViewAttemptKey = "view_attempt"
)
