package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"github.com/IT-Nick/veritasbot/internal/infra/metrics"
	"github.com/IT-Nick/veritasbot/internal/infra/timer"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type State string

const (
	StateNotStarted     State = "not_started"
	StateInProgress     State = "in_progress"
	StateSubmitting     State = "submitting"
	StateCompleted      State = "completed"
	StateViewingHistory State = "viewing_history"
)

var (
	ErrNotInProgress   = errors.New("session is not in progress")
	ErrSubmitInFlight  = errors.New("submission already in flight")
	ErrReadOnly        = errors.New("session is read-only")
	ErrUnknownQuestion = errors.New("unknown question")
	ErrAlreadyStarted  = errors.New("session already started")
)

// Owner данные студента, от имени которого идет отправка
type Owner struct {
	StudentID    string
	Token        string
	StudentName  string
	StudentGroup string
}

// Outcome итог отправки. При ошибке Score = 0, Err заполнен, а результат помечен неподтвержденным.
type Outcome struct {
	Score    int
	MaxScore int
	Auto     bool
	Err      error
	Result   model.TestResult
}

// Hooks вызываются вне блокировки состояния сессии. OnTick не пересекается с OnComplete
// и OnDiscard: после них новых OnTick не будет.
type Hooks struct {
	OnTick     func(s *Session, remaining int)
	OnComplete func(s *Session, o Outcome)
	OnDiscard  func(s *Session)
}

type Option func(*Session)

func WithHooks(h Hooks) Option {
	return func(s *Session) { s.hooks = h }
}

func WithTickInterval(d time.Duration) Option {
	return func(s *Session) { s.tickInterval = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session прохождение одного теста в одном чате
type Session struct {
	id        string
	test      model.Test
	questions []model.Question
	owner     Owner
	submitter Submitter
	logger    *zap.Logger

	hooks        Hooks
	tickInterval time.Duration
	now          func() time.Time
	countdown    *timer.Countdown

	// hookMu держится на время OnTick
	hookMu sync.Mutex

	mu         sync.Mutex
	state      State
	answers    map[string]model.Answer
	remaining  int
	finalScore *int
	discarded  bool
	active     bool
}

// New создает сессию в состоянии not_started
func New(test model.Test, questions []model.Question, owner Owner, submitter Submitter, logger *zap.Logger, opts ...Option) *Session {
	s := &Session{
		id:           uuid.NewString(),
		test:         test,
		questions:    questions,
		owner:        owner,
		submitter:    submitter,
		logger:       logger,
		tickInterval: time.Second,
		now:          time.Now,
		state:        StateNotStarted,
		answers:      make(map[string]model.Answer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.countdown = timer.NewCountdown(s.tickInterval, s.Tick)
	return s
}

// NewHistory восстанавливает завершенную сессию только для просмотра, без таймера
func NewHistory(test model.Test, questions []model.Question, answers map[string]model.Answer, finalScore int) *Session {
	s := New(test, questions, Owner{}, nil, zap.NewNop())
	for k, v := range answers {
		s.answers[k] = v
	}
	score := finalScore
	s.finalScore = &score
	s.state = StateViewingHistory
	return s
}

func (s *Session) ID() string                  { return s.id }
func (s *Session) Test() model.Test            { return s.test }
func (s *Session) Questions() []model.Question { return s.questions }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

func (s *Session) FinalScore() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalScore == nil {
		return 0, false
	}
	return *s.finalScore, true
}

// MaxScore сумма баллов всех вопросов
func (s *Session) MaxScore() int {
	total := 0
	for _, q := range s.questions {
		total += q.Points
	}
	return total
}

// Answer текущий ответ на вопрос
func (s *Session) Answer(questionID string) (model.Answer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.answers[questionID]
	return a, ok
}

// AnsweredCount число вопросов с непустым ответом
func (s *Session) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.answers {
		if len(a.Strings()) > 0 {
			n++
		}
	}
	return n
}

func (s *Session) Question(questionID string) (model.Question, bool) {
	for _, q := range s.questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return model.Question{}, false
}

// Start переводит сессию в in_progress: remaining = длительность * 60, ответы пусты, таймер запущен
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateNotStarted || s.discarded {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = StateInProgress
	s.remaining = s.test.Duration * 60
	s.answers = make(map[string]model.Answer)
	s.active = true
	s.mu.Unlock()

	metrics.ActiveSessions.Inc()
	s.countdown.Start(context.WithoutCancel(ctx))
	return nil
}

// SetAnswer заменяет ответ на вопрос. Варианты не проверяются.
func (s *Session) SetAnswer(questionID string, answer model.Answer) error {
	if _, ok := s.Question(questionID); !ok {
		return ErrUnknownQuestion
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	s.answers[questionID] = answer
	return nil
}

// ToggleOption для multiple добавляет или убирает вариант, для остальных типов выбирает его
func (s *Session) ToggleOption(questionID, optionID string) (model.Answer, error) {
	q, ok := s.Question(questionID)
	if !ok {
		return model.Answer{}, ErrUnknownQuestion
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return model.Answer{}, err
	}

	if q.Type != model.QuestionMultiple {
		a := model.ScalarAnswer(optionID)
		s.answers[questionID] = a
		return a, nil
	}

	current := s.answers[questionID].Strings()
	next := make([]string, 0, len(current)+1)
	found := false
	for _, v := range current {
		if v == optionID {
			found = true
			continue
		}
		next = append(next, v)
	}
	if !found {
		next = append(next, optionID)
	}
	a := model.ListAnswer(next)
	s.answers[questionID] = a
	return a, nil
}

func (s *Session) editableLocked() error {
	switch {
	case s.state == StateViewingHistory:
		return ErrReadOnly
	case s.discarded, s.state != StateInProgress:
		return ErrNotInProgress
	}
	return nil
}

// Tick уменьшает оставшееся время на секунду. На нуле запускает автоматическую отправку ровно один раз.
func (s *Session) Tick(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateInProgress || s.discarded {
		s.mu.Unlock()
		return
	}
	if s.remaining > 0 {
		s.remaining--
	}
	remaining := s.remaining
	s.mu.Unlock()

	if remaining == 0 {
		_ = s.submit(ctx, true)
		return
	}
	if s.hooks.OnTick == nil {
		return
	}

	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.mu.Lock()
	live := s.state == StateInProgress && !s.discarded
	s.mu.Unlock()
	if live {
		s.hooks.OnTick(s, remaining)
	}
}

// waitTick дожидается завершения OnTick, который уже идет
func (s *Session) waitTick() {
	s.hookMu.Lock()
	s.hookMu.Unlock()
}

// Submit отправляет ответы вручную. Повторный вызов во время отправки ничего не делает.
func (s *Session) Submit(ctx context.Context) error {
	return s.submit(ctx, false)
}

func (s *Session) submit(ctx context.Context, auto bool) error {
	s.mu.Lock()
	switch {
	case s.state == StateSubmitting:
		s.mu.Unlock()
		return ErrSubmitInFlight
	case s.state == StateViewingHistory:
		s.mu.Unlock()
		return ErrReadOnly
	case s.state != StateInProgress || s.discarded:
		s.mu.Unlock()
		return ErrNotInProgress
	}
	s.state = StateSubmitting
	answers := make(map[string]model.Answer, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	s.mu.Unlock()

	s.countdown.Stop()
	// таймер отменяет свой контекст, отправка не должна от него зависеть
	ctx = context.WithoutCancel(ctx)

	score, err := s.send(ctx, answers)

	s.mu.Lock()
	s.state = StateCompleted
	s.finalScore = &score
	s.mu.Unlock()
	s.release()

	outcome := Outcome{
		Score:    score,
		MaxScore: s.MaxScore(),
		Auto:     auto,
		Err:      err,
		Result:   s.localResult(score, err != nil, answers),
	}
	s.record(outcome)

	s.waitTick()
	if s.hooks.OnComplete != nil {
		s.hooks.OnComplete(s, outcome)
	}
	return nil
}

func (s *Session) send(ctx context.Context, answers map[string]model.Answer) (int, error) {
	if s.owner.Token == "" || s.submitter == nil {
		return 0, ErrMissingIdentity
	}

	req, skipped, err := BuildSubmission(s.test.ID, s.questions, answers, s.owner.StudentID)
	if err != nil {
		return 0, err
	}
	if len(skipped) > 0 {
		s.logger.Warn("questions with non-numeric ids left out of submission",
			zap.String("test_id", s.test.ID),
			zap.Strings("question_ids", skipped),
		)
	}

	score, err := s.submitter.Submit(ctx, s.owner.Token, req)
	if err != nil {
		return 0, err
	}
	return score, nil
}

func (s *Session) localResult(score int, unconfirmed bool, answers map[string]model.Answer) model.TestResult {
	return model.TestResult{
		ID:           "result-" + s.id,
		TestID:       s.test.ID,
		Subject:      s.test.Subject,
		Title:        s.test.Title,
		Lecturer:     s.test.Lecturer,
		StartTime:    s.test.StartTime,
		EndTime:      s.test.EndTime,
		Score:        score,
		MaxScore:     s.MaxScore(),
		Status:       model.StatusCompleted,
		StudentName:  s.owner.StudentName,
		StudentGroup: s.owner.StudentGroup,
		CompletedAt:  s.now().UTC().Format(time.RFC3339),
		Unconfirmed:  unconfirmed,
		SessionID:    s.id,
		Questions:    s.questions,
		Answers:      answers,
	}
}

func (s *Session) record(o Outcome) {
	outcome, trigger := "success", "manual"
	if o.Err != nil {
		outcome = "failed"
	}
	if o.Auto {
		trigger = "timeout"
	}
	metrics.Submissions.WithLabelValues(outcome, trigger).Inc()

	fields := []zap.Field{
		zap.String("session_id", s.id),
		zap.String("test_id", s.test.ID),
		zap.Int("score", o.Score),
		zap.Bool("auto", o.Auto),
	}
	if o.Err != nil {
		s.logger.Warn("submission failed, completed with zero score", append(fields, zap.Error(o.Err))...)
		return
	}
	s.logger.Info("test submitted", fields...)
}

// Discard останавливает таймер (уход со страницы, новая сессия, остановка бота)
func (s *Session) Discard() {
	s.countdown.Stop()
	s.mu.Lock()
	first := !s.discarded
	s.discarded = true
	s.mu.Unlock()
	s.release()

	if !first {
		return
	}
	s.waitTick()
	if s.hooks.OnDiscard != nil {
		s.hooks.OnDiscard(s)
	}
}

// release снимает сессию с учета активных ровно один раз
func (s *Session) release() {
	s.mu.Lock()
	wasActive := s.active
	s.active = false
	s.mu.Unlock()
	if wasActive {
		metrics.ActiveSessions.Dec()
	}
}
