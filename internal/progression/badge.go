package progression

import (
	"time"

	"github.com/abhisek/quizzy/internal/scoring"
)

// BadgeID identifies a badge in the static catalog.
type BadgeID string

const (
	BadgeFirstQuiz   BadgeID = "first-quiz"
	BadgeStreak3     BadgeID = "streak-3"
	BadgePerfectQuiz BadgeID = "perfect-quiz"
	BadgeSpeedDemon  BadgeID = "speed-demon"
	BadgeBrainMaster BadgeID = "brain-master"
)

// Badge thresholds.
const (
	StreakBadgeLength = 3

	// Speed Demon: at least this many questions inside SpeedDemonLimit.
	SpeedDemonMinQuestions = 10
	SpeedDemonLimit        = time.Minute

	// Brain Master: a session of at least this length answered without a miss.
	BrainMasterMinQuestions = 10
)

// Badge is an achievement. Only Earned and EarnedAt ever change, and only
// once.
type Badge struct {
	ID          BadgeID   `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Earned      bool      `json:"earned"`
	EarnedAt    time.Time `json:"earned_at,omitempty"`
}

// Catalog returns the badge definitions in display order, none earned.
func Catalog() []Badge {
	return []Badge{
		{ID: BadgeFirstQuiz, Name: "First Steps", Description: "Complete your first quiz", Icon: "🌱"},
		{ID: BadgeStreak3, Name: "On Fire", Description: "Get a 3-answer streak", Icon: "🔥"},
		{ID: BadgePerfectQuiz, Name: "Perfectionist", Description: "Score 100% on a quiz", Icon: "🏆"},
		{ID: BadgeSpeedDemon, Name: "Speed Demon", Description: "Answer 10 questions in under 1 minute", Icon: "⚡"},
		{ID: BadgeBrainMaster, Name: "Brain Master", Description: "Maintain high attention for a full quiz", Icon: "🧠"},
	}
}

type badgeRule struct {
	id   BadgeID
	test func(stats UserStats, r scoring.Result) bool
}

// badgeRules are evaluated against the post-commit stats and the result
// that produced them.
var badgeRules = []badgeRule{
	{BadgePerfectQuiz, func(_ UserStats, r scoring.Result) bool {
		return r.Perfect()
	}},
	{BadgeStreak3, func(_ UserStats, r scoring.Result) bool {
		return r.BestStreak >= StreakBadgeLength
	}},
	{BadgeFirstQuiz, func(s UserStats, _ scoring.Result) bool {
		return s.TotalQuizzes == 1
	}},
	{BadgeSpeedDemon, func(_ UserStats, r scoring.Result) bool {
		return r.TotalCount >= SpeedDemonMinQuestions && r.Elapsed < SpeedDemonLimit
	}},
	{BadgeBrainMaster, func(_ UserStats, r scoring.Result) bool {
		return r.TotalCount >= BrainMasterMinQuestions && r.BestStreak == r.TotalCount
	}},
}
