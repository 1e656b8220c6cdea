package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizzy/internal/difficulty"
	"github.com/abhisek/quizzy/internal/progression"
	"github.com/abhisek/quizzy/internal/questionbank"
	"github.com/abhisek/quizzy/internal/scoring"
)

// DefaultLength is the number of questions in a session.
const DefaultLength = 10

// Ledger receives finished results. *progression.Ledger implements it.
type Ledger interface {
	Commit(ctx context.Context, userID string, result scoring.Result) (progression.Outcome, error)
	Resave(ctx context.Context, se *progression.SaveError) (progression.Outcome, error)
}

// Machine drives one user's quiz sessions through Idle, InProgress and
// Finished. All methods are safe for concurrent use; calls are applied one
// at a time.
type Machine struct {
	mu sync.Mutex

	userID string
	bank   questionbank.Bank
	ledger Ledger

	length    int
	timeLimit time.Duration
	now       func() time.Time
	pick      func(n int) int
	newID     func() string

	state   State
	session *Session
	outcome *progression.Outcome
	saveErr *progression.SaveError

	// uncommitted is set when the ledger failed before a snapshot existed
	// to resave. RetrySave then commits the stored result again.
	uncommitted bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithLength sets the number of questions per session. Values below 1 are
// ignored.
func WithLength(n int) Option {
	return func(m *Machine) {
		if n >= 1 {
			m.length = n
		}
	}
}

// WithTimeLimit bounds each session. Zero disables the limit.
func WithTimeLimit(d time.Duration) Option {
	return func(m *Machine) {
		if d >= 0 {
			m.timeLimit = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithPicker overrides the random choice among candidate questions. pick
// receives the candidate count and returns an index.
func WithPicker(pick func(n int) int) Option {
	return func(m *Machine) { m.pick = pick }
}

// WithSessionIDs overrides session id generation.
func WithSessionIDs(newID func() string) Option {
	return func(m *Machine) { m.newID = newID }
}

// NewMachine creates an idle machine for userID. ledger may be nil, in
// which case results are produced but not committed anywhere.
func NewMachine(userID string, bank questionbank.Bank, ledger Ledger, opts ...Option) *Machine {
	m := &Machine{
		userID: userID,
		bank:   bank,
		ledger: ledger,
		length: DefaultLength,
		now:    time.Now,
		pick:   rand.IntN,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// UserID returns the owner of this machine.
func (m *Machine) UserID() string {
	return m.userID
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start begins a session in categoryID. The first question is always drawn
// at difficulty.StartTier.
func (m *Machine) Start(ctx context.Context, categoryID string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateIdle {
		return View{}, fmt.Errorf("%w: cannot start while %s", ErrInvalidState, m.state)
	}
	cat, ok := m.bank.Category(categoryID)
	if !ok {
		return View{}, fmt.Errorf("%w: %q", ErrInvalidCategory, categoryID)
	}

	s := newSession(m.newID(), cat, m.now(), m.timeLimit)
	q, err := m.nextQuestion(ctx, s)
	if err != nil {
		return View{}, fmt.Errorf("start %s: %w", categoryID, err)
	}
	s.current = q

	m.session = s
	m.outcome = nil
	m.saveErr = nil
	m.uncommitted = false
	m.state = StateInProgress
	slog.Debug("quiz started", "user", m.userID, "session", s.ID, "category", cat.ID)
	return m.viewLocked(), nil
}

// Submit answers the current question. choice is the index into its
// choices. When the answer completes the session, the result is committed
// to the ledger before Submit returns; a ledger failure is returned next to
// a valid Feedback and can be retried with RetrySave.
func (m *Machine) Submit(ctx context.Context, choice int, timeTaken time.Duration) (Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateInProgress {
		return Feedback{}, fmt.Errorf("%w: cannot answer while %s", ErrInvalidState, m.state)
	}
	s := m.session
	q := s.current
	if q == nil {
		return Feedback{}, fmt.Errorf("%w: no question pending", ErrInvalidState)
	}

	if s.expired(m.now()) {
		return m.timeoutLocked(ctx)
	}

	if !q.ValidChoice(choice) {
		return Feedback{}, fmt.Errorf("%w: choice %d out of range [0,%d)", ErrValidation, choice, len(q.Choices))
	}
	if timeTaken < 0 {
		return Feedback{}, fmt.Errorf("%w: negative time taken", ErrValidation)
	}

	correct := q.IsCorrect(choice)
	s.Answers = append(s.Answers, scoring.Answer{
		QuestionID: q.ID,
		Tier:       q.Tier,
		Choice:     choice,
		Correct:    correct,
		TimeTaken:  timeTaken,
	})
	if correct {
		s.Streak++
		s.BestStreak = max(s.BestStreak, s.Streak)
	} else {
		s.Streak = 0
	}

	prev := s.Tier
	s.Tier = difficulty.Next(s.Tier, s.Streak, s.recentAccuracy())

	fb := Feedback{
		Correct:       correct,
		Chosen:        choice,
		CorrectChoice: q.Answer,
		Explanation:   q.Explanation,
		PrevTier:      prev,
		Tier:          s.Tier,
		Streak:        s.Streak,
	}

	if len(s.Answers) >= m.length {
		fb.Finished = true
		err := m.finishLocked(ctx, &fb)
		return fb, err
	}

	next, err := m.nextQuestion(ctx, s)
	if err != nil {
		// The session cannot continue. Drop it without committing.
		slog.Warn("quiz aborted, no question available", "user", m.userID, "session", s.ID, "tier", s.Tier, "err", err)
		m.discardLocked()
		return fb, fmt.Errorf("continue %s: %w", s.Category.ID, err)
	}
	s.current = next
	return fb, nil
}

// Expire finishes an in-progress session whose deadline has passed. The
// result is committed exactly as if the last question had been answered.
// With nothing answered the session is discarded instead (Feedback.Discarded).
func (m *Machine) Expire(ctx context.Context) (Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateInProgress {
		return Feedback{}, fmt.Errorf("%w: cannot expire while %s", ErrInvalidState, m.state)
	}
	s := m.session
	if !s.expired(m.now()) {
		return Feedback{}, fmt.Errorf("%w: session still has time left", ErrInvalidState)
	}
	return m.timeoutLocked(ctx)
}

// timeoutLocked ends a session whose deadline passed. A session with no
// answers is dropped like Abandon and never reaches the ledger.
func (m *Machine) timeoutLocked(ctx context.Context) (Feedback, error) {
	s := m.session
	fb := Feedback{Finished: true, TimedOut: true, PrevTier: s.Tier, Tier: s.Tier, Streak: s.Streak}
	if len(s.Answers) == 0 {
		slog.Debug("quiz timed out unanswered", "user", m.userID, "session", s.ID)
		m.discardLocked()
		fb.Discarded = true
		return fb, nil
	}
	err := m.finishLocked(ctx, &fb)
	return fb, err
}

// Abandon discards an in-progress session. The ledger is not touched.
func (m *Machine) Abandon() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateInProgress {
		return fmt.Errorf("%w: nothing to abandon while %s", ErrInvalidState, m.state)
	}
	slog.Debug("quiz abandoned", "user", m.userID, "session", m.session.ID, "answered", len(m.session.Answers))
	m.discardLocked()
	return nil
}

// Reset returns a finished machine to Idle, dropping the session. Calling
// it while idle is a no-op.
func (m *Machine) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateIdle:
		return nil
	case StateFinished:
		if m.pendingSave() {
			slog.Warn("discarding result that was never saved", "user", m.userID, "session", m.session.ID)
		}
		m.discardLocked()
		return nil
	default:
		return fmt.Errorf("%w: cannot reset while %s", ErrInvalidState, m.state)
	}
}

// RetrySave stores a finished result whose first save failed.
func (m *Machine) RetrySave(ctx context.Context) (progression.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateFinished || !m.pendingSave() {
		return progression.Outcome{}, fmt.Errorf("%w: no pending save", ErrInvalidState)
	}

	var (
		out progression.Outcome
		err error
	)
	if m.saveErr != nil {
		out, err = m.ledger.Resave(ctx, m.saveErr)
	} else {
		out, err = m.ledger.Commit(ctx, m.userID, *m.session.result)
	}
	if err != nil {
		m.keepForRetry(err)
		return progression.Outcome{}, err
	}
	m.saveErr = nil
	m.uncommitted = false
	m.outcome = &out
	return out, nil
}

// View returns a snapshot of the machine.
func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

func (m *Machine) viewLocked() View {
	v := View{
		State:     m.state,
		Length:    m.length,
		TimeLimit: m.timeLimit,
		Tier:      difficulty.StartTier,
	}
	s := m.session
	if s == nil {
		return v
	}
	v.SessionID = s.ID
	v.Category = s.Category
	v.Tier = s.Tier
	v.Streak = s.Streak
	v.BestStreak = s.BestStreak
	v.Correct = s.correctCount()
	v.Answered = len(s.Answers)
	v.StartedAt = s.StartedAt
	if m.state == StateInProgress && s.current != nil {
		q := *s.current
		q.Choices = append([]string(nil), s.current.Choices...)
		v.Question = &q
		v.Number = len(s.Answers) + 1
	}
	if !s.Deadline.IsZero() && m.state == StateInProgress {
		v.Remaining = max(0, s.Deadline.Sub(m.now()))
	}
	if s.result != nil {
		r := *s.result
		v.Result = &r
	}
	if m.outcome != nil {
		o := *m.outcome
		v.Outcome = &o
	}
	v.SaveFailed = m.pendingSave()
	return v
}

// finishLocked scores the session, moves to Finished and hands the result
// to the ledger. It runs once per session: the state check in every caller
// guarantees no second entry.
func (m *Machine) finishLocked(ctx context.Context, fb *Feedback) error {
	s := m.session
	now := m.now()
	result := scoring.Score(s.Category.ID, s.Answers, now.Sub(s.StartedAt))
	result.SessionID = s.ID

	s.result = &result
	s.current = nil
	m.state = StateFinished

	fb.Result = &result
	slog.Debug("quiz finished", "user", m.userID, "session", s.ID, "correct", result.CorrectCount, "total", result.TotalCount, "xp", result.XPAwarded)

	if m.ledger == nil {
		return nil
	}
	out, err := m.ledger.Commit(ctx, m.userID, result)
	if err != nil {
		m.keepForRetry(err)
		return fmt.Errorf("commit session %s: %w", s.ID, err)
	}
	m.outcome = &out
	fb.Outcome = &out
	return nil
}

// keepForRetry records a failed commit so RetrySave can finish it.
func (m *Machine) keepForRetry(err error) {
	var se *progression.SaveError
	if errors.As(err, &se) {
		m.saveErr = se
		m.uncommitted = false
		return
	}
	m.saveErr = nil
	m.uncommitted = true
}

func (m *Machine) pendingSave() bool {
	return m.saveErr != nil || m.uncommitted
}

func (m *Machine) discardLocked() {
	m.session = nil
	m.outcome = nil
	m.saveErr = nil
	m.uncommitted = false
	m.state = StateIdle
}

// nextQuestion draws a question at the session's tier, preferring ones not
// yet asked in this session.
func (m *Machine) nextQuestion(ctx context.Context, s *Session) (*questionbank.Question, error) {
	qs, err := m.bank.QuestionsFor(ctx, s.Category.ID, s.Tier)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("%w: %s at %s", questionbank.ErrNoQuestionsAvailable, s.Category.ID, s.Tier)
	}

	fresh := make([]questionbank.Question, 0, len(qs))
	for _, q := range qs {
		if !s.asked[q.ID] {
			fresh = append(fresh, q)
		}
	}
	if len(fresh) == 0 {
		fresh = qs
	}

	i := m.pick(len(fresh))
	if i < 0 || i >= len(fresh) {
		i = 0
	}
	q := fresh[i]
	s.asked[q.ID] = true
	return &q, nil
}
