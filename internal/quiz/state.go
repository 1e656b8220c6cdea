package quiz

import (
	"time"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/difficulty"
	"github.com/abhisek/quizzy/internal/progression"
	"github.com/abhisek/quizzy/internal/questionbank"
	"github.com/abhisek/quizzy/internal/scoring"
)

// State is the lifecycle state of a Machine.
type State int

const (
	StateIdle       State = iota // No session; waiting for a category
	StateInProgress              // Serving questions
	StateFinished                // Result produced and handed to the ledger
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInProgress:
		return "in_progress"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// recentWindow is how many trailing answers feed recent accuracy.
const recentWindow = 5

// Session is one attempt at a quiz. It is owned and mutated by a Machine.
type Session struct {
	ID        string
	Category  category.Category
	StartedAt time.Time

	// Deadline is zero when the session has no time limit.
	Deadline time.Time

	// Answers is append-only.
	Answers []scoring.Answer

	Streak     int
	BestStreak int
	Tier       difficulty.Tier

	current *questionbank.Question
	asked   map[string]bool
	result  *scoring.Result
}

func newSession(id string, cat category.Category, now time.Time, limit time.Duration) *Session {
	s := &Session{
		ID:        id,
		Category:  cat,
		StartedAt: now,
		Tier:      difficulty.StartTier,
		asked:     make(map[string]bool),
	}
	if limit > 0 {
		s.Deadline = now.Add(limit)
	}
	return s
}

// correctCount counts correct answers so far.
func (s *Session) correctCount() int {
	n := 0
	for _, a := range s.Answers {
		if a.Correct {
			n++
		}
	}
	return n
}

// recentAccuracy is the correct ratio over the last few answers.
func (s *Session) recentAccuracy() float64 {
	tail := s.Answers
	if len(tail) > recentWindow {
		tail = tail[len(tail)-recentWindow:]
	}
	if len(tail) == 0 {
		return 0
	}
	n := 0
	for _, a := range tail {
		if a.Correct {
			n++
		}
	}
	return float64(n) / float64(len(tail))
}

func (s *Session) expired(now time.Time) bool {
	return !s.Deadline.IsZero() && !now.Before(s.Deadline)
}

// View is a read-only snapshot of a Machine for presentation.
type View struct {
	State State

	SessionID string
	Category  category.Category

	// Question is the one awaiting an answer, nil outside InProgress.
	Question *questionbank.Question

	// Number is the 1-based position of Question in the session.
	Number int
	Length int

	Tier       difficulty.Tier
	Streak     int
	BestStreak int
	Correct    int
	Answered   int

	StartedAt time.Time

	// Remaining is the time left before the deadline, zero without a limit.
	Remaining time.Duration
	TimeLimit time.Duration

	Result  *scoring.Result
	Outcome *progression.Outcome

	// SaveFailed is set while a finished result awaits RetrySave.
	SaveFailed bool
}

// Feedback describes the effect of one Submit.
type Feedback struct {
	Correct       bool
	Chosen        int
	CorrectChoice int
	Explanation   string

	// PrevTier is the tier of the answered question; Tier is the tier the
	// next question is drawn from.
	PrevTier difficulty.Tier
	Tier     difficulty.Tier

	Streak int

	// Finished is set when this submission ended the session. TimedOut is
	// set when the deadline passed before the answer could be applied.
	Finished bool
	TimedOut bool

	// Discarded is set when time ran out before any answer. Nothing was
	// scored or committed and the machine is back to idle.
	Discarded bool

	Result  *scoring.Result
	Outcome *progression.Outcome
}
