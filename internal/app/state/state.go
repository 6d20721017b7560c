package state

import "sync"

// PendingAnswers вопросы, ответ на которые чат пришлет следующим текстовым сообщением
type PendingAnswers struct {
	mu sync.Mutex
	m  map[int64]pending
}

type pending struct {
	sessionID  string
	questionID string
}

func NewPendingAnswers() *PendingAnswers {
	return &PendingAnswers{m: make(map[int64]pending)}
}

// Set ждет текстовый ответ на вопрос сессии
func (p *PendingAnswers) Set(chatID int64, sessionID, questionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[chatID] = pending{sessionID: sessionID, questionID: questionID}
}

// Take возвращает и забывает ожидаемый вопрос
func (p *PendingAnswers) Take(chatID int64) (sessionID, questionID string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.m[chatID]
	delete(p.m, chatID)
	return v.sessionID, v.questionID, ok
}

func (p *PendingAnswers) Clear(chatID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.m, chatID)
}

// ClearSession забывает вопрос, только если он относится к сессии
func (p *PendingAnswers) ClearSession(chatID int64, sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.m[chatID]; ok && v.sessionID == sessionID {
		delete(p.m, chatID)
	}
}
