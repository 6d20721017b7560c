package session

import (
	"sort"
	"sync"

	"github.com/IT-Nick/veritasbot/internal/domain/dto"
	"github.com/IT-Nick/veritasbot/internal/infra/timer"
)

// Registry хранит не более одной сессии на чат
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]*Session)}
}

// Put делает сессию текущей для чата, предыдущая сессия отбрасывается
func (r *Registry) Put(chatID int64, s *Session) {
	r.mu.Lock()
	prev := r.sessions[chatID]
	r.sessions[chatID] = s
	r.mu.Unlock()

	if prev != nil && prev != s {
		prev.Discard()
	}
}

func (r *Registry) Get(chatID int64) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[chatID]
	return s, ok
}

// Remove убирает сессию, только если она все еще текущая для чата
func (r *Registry) Remove(chatID int64, s *Session) {
	r.mu.Lock()
	current := r.sessions[chatID]
	if current == s {
		delete(r.sessions, chatID)
	}
	r.mu.Unlock()

	if current == s && s != nil {
		s.Discard()
	}
}

// DiscardAll останавливает все таймеры, используется при остановке бота
func (r *Registry) DiscardAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[int64]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Discard()
	}
}

// ActiveReport отчет по сессиям в процессе прохождения
func (r *Registry) ActiveReport() dto.ActiveSessionsResponse {
	r.mu.Lock()
	chats := make([]int64, 0, len(r.sessions))
	for chatID := range r.sessions {
		chats = append(chats, chatID)
	}
	sessions := make(map[int64]*Session, len(r.sessions))
	for k, v := range r.sessions {
		sessions[k] = v
	}
	r.mu.Unlock()

	sort.Slice(chats, func(i, j int) bool { return chats[i] < chats[j] })

	resp := dto.ActiveSessionsResponse{Sessions: []dto.ActiveSessionInfo{}}
	for _, chatID := range chats {
		s := sessions[chatID]
		state := s.State()
		if state != StateInProgress && state != StateSubmitting {
			continue
		}
		resp.Sessions = append(resp.Sessions, sessionInfo(chatID, s, state))
	}
	resp.TotalActiveSessions = len(resp.Sessions)
	return resp
}

// Report сведения о текущей сессии чата в любом состоянии
func (r *Registry) Report(chatID int64) (dto.ActiveSessionInfo, bool) {
	s, ok := r.Get(chatID)
	if !ok {
		return dto.ActiveSessionInfo{}, false
	}
	return sessionInfo(chatID, s, s.State()), true
}

func sessionInfo(chatID int64, s *Session, state State) dto.ActiveSessionInfo {
	test := s.Test()
	return dto.ActiveSessionInfo{
		ChatID:         chatID,
		SessionID:      s.ID(),
		TestID:         test.ID,
		TestTitle:      test.Title,
		Subject:        test.Subject,
		State:          string(state),
		Answered:       s.AnsweredCount(),
		TotalQuestions: len(s.Questions()),
		RemainingTime:  timer.FormatRemaining(s.Remaining()),
	}
}
