package scoring

import (
	"math"
	"time"

	"github.com/abhisek/quizzy/internal/difficulty"
)

// XP award weights.
const (
	XPPerCorrect        = 10
	XPPerStreak         = 5
	PerfectBonus        = 25
	PerfectMinQuestions = 5
)

// Answer is one recorded response within a session.
type Answer struct {
	QuestionID string
	Tier       difficulty.Tier
	Choice     int
	Correct    bool
	TimeTaken  time.Duration
}

// Result is the immutable summary of a finished session.
type Result struct {
	SessionID    string
	Category     string
	CorrectCount int
	TotalCount   int
	BestStreak   int
	Elapsed      time.Duration
	XPAwarded    int
}

// IncorrectCount returns the number of missed answers.
func (r Result) IncorrectCount() int {
	return r.TotalCount - r.CorrectCount
}

// Accuracy returns the correct ratio in [0, 1], 0 for an empty session.
func (r Result) Accuracy() float64 {
	if r.TotalCount == 0 {
		return 0
	}
	return float64(r.CorrectCount) / float64(r.TotalCount)
}

// Percent returns the accuracy rounded to a whole percentage.
func (r Result) Percent() int {
	return int(math.Round(100 * r.Accuracy()))
}

// Perfect reports whether the session qualifies as a clean run.
func (r Result) Perfect() bool {
	return r.TotalCount >= PerfectMinQuestions && r.CorrectCount == r.TotalCount
}

// Score summarizes answers. Counts come straight from the records.
func Score(category string, answers []Answer, elapsed time.Duration) Result {
	r := Result{
		Category:   category,
		TotalCount: len(answers),
		BestStreak: BestStreak(answers),
		Elapsed:    elapsed,
	}
	for _, a := range answers {
		if a.Correct {
			r.CorrectCount++
		}
	}
	r.XPAwarded = XP(r.CorrectCount, r.TotalCount, r.BestStreak)
	return r
}

// XP computes the award for a session.
func XP(correct, total, bestStreak int) int {
	xp := correct*XPPerCorrect + bestStreak*XPPerStreak
	if total == correct && total >= PerfectMinQuestions {
		xp += PerfectBonus
	}
	return xp
}

// BestStreak returns the longest run of consecutive correct answers.
func BestStreak(answers []Answer) int {
	best, run := 0, 0
	for _, a := range answers {
		if !a.Correct {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
	}
	return best
}
