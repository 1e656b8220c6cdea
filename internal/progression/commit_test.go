package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizzy/internal/scoring"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func result(cat string, correct, total, streak int, elapsed time.Duration) scoring.Result {
	return scoring.Result{
		Category:     cat,
		CorrectCount: correct,
		TotalCount:   total,
		BestStreak:   streak,
		Elapsed:      elapsed,
		XPAwarded:    scoring.XP(correct, total, streak),
	}
}

func earnedIDs(stats UserStats) []BadgeID {
	var ids []BadgeID
	for _, b := range stats.EarnedBadges() {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestCommit_ScenarioA(t *testing.T) {
	out := Commit(NewStats(), result("science", 5, 5, 5, 2*time.Minute), t0)

	s := out.Stats
	assert.Equal(t, 1, s.TotalQuizzes)
	assert.Equal(t, 5, s.TotalCorrect)
	assert.Equal(t, 5, s.TotalQuestions)
	assert.Equal(t, 100, s.AverageScorePercent())
	assert.Equal(t, 100, s.TotalXP)
	assert.Equal(t, 2, s.Level())
	assert.Equal(t, RankNovice, s.Rank())
	assert.Equal(t, 5, s.LongestStreak)
	assert.ElementsMatch(t, []BadgeID{BadgeFirstQuiz, BadgeStreak3, BadgePerfectQuiz}, earnedIDs(s))
	assert.True(t, out.LeveledUp)

	var kinds []EventKind
	for _, e := range out.Events {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []EventKind{EventBadgeEarned, EventBadgeEarned, EventBadgeEarned, EventLevelUp}, kinds)
}

func TestCommit_ScenarioB(t *testing.T) {
	r := result("history", 2, 3, 2, time.Minute)
	require.Equal(t, 30, r.XPAwarded)

	out := Commit(NewStats(), r, t0)
	assert.Equal(t, []BadgeID{BadgeFirstQuiz}, earnedIDs(out.Stats))
	assert.Equal(t, 67, out.Stats.AverageScorePercent())
	assert.False(t, out.LeveledUp)

	// A short clean run does not qualify either.
	short := Commit(NewStats(), result("history", 3, 3, 2, time.Minute), t0)
	_, perfect := short.Stats.Badge(BadgePerfectQuiz)
	require.True(t, perfect)
	b, _ := short.Stats.Badge(BadgePerfectQuiz)
	assert.False(t, b.Earned)
}

func TestCommit_ScenarioC(t *testing.T) {
	s := NewStats()
	s = Commit(s, result("science", 5, 5, 5, 2*time.Minute), t0).Stats
	assert.Equal(t, 100, s.TotalXP)
	assert.Equal(t, 2, s.Level())

	for s.TotalXP < 900 {
		s = Commit(s, result("science", 5, 5, 5, 2*time.Minute), t0).Stats
		assert.Equal(t, LevelFor(s.TotalXP), s.Level())
	}
	assert.Equal(t, 900, s.TotalXP)
	assert.Equal(t, 4, s.Level())
	assert.Equal(t, RankKnowledgeSeeker, s.Rank())
}

func TestCommit_Pure(t *testing.T) {
	prev := Commit(NewStats(), result("art", 1, 3, 1, time.Minute), t0).Stats
	before := prev.Clone()

	out := Commit(prev, result("science", 5, 5, 5, time.Minute), t0.Add(time.Hour))

	assert.Equal(t, before, prev, "input must not change")
	assert.NotContains(t, prev.PerCategory, "science")

	// Reading the same outcome twice gives identical values.
	assert.Equal(t, out.Stats.AverageScorePercent(), out.Stats.AverageScorePercent())
	assert.Equal(t, out.Stats.Level(), out.Stats.Level())

	// Same inputs, same outputs.
	again := Commit(prev, result("science", 5, 5, 5, time.Minute), t0.Add(time.Hour))
	assert.Equal(t, out, again)
}

func TestCommit_NotIdempotent(t *testing.T) {
	r := result("science", 4, 5, 2, time.Minute)
	once := Commit(NewStats(), r, t0).Stats
	twice := Commit(once, r, t0).Stats
	assert.Equal(t, 2, twice.TotalQuizzes)
	assert.Equal(t, 2*r.XPAwarded, twice.TotalXP)
	assert.Equal(t, Tally{Correct: 8, Total: 10}, twice.PerCategory["science"])
}

func TestCommit_EarnedAtSetOnce(t *testing.T) {
	first := Commit(NewStats(), result("science", 5, 5, 5, time.Minute), t0)
	b, _ := first.Stats.Badge(BadgeStreak3)
	require.True(t, b.Earned)
	assert.Equal(t, t0, b.EarnedAt)

	later := t0.Add(24 * time.Hour)
	second := Commit(first.Stats, result("science", 5, 5, 5, time.Minute), later)
	b, _ = second.Stats.Badge(BadgeStreak3)
	assert.Equal(t, t0, b.EarnedAt)
	assert.Empty(t, second.BadgesEarned(), "nothing new to earn")
}

func TestCommit_SpeedDemonAndBrainMaster(t *testing.T) {
	tests := []struct {
		name string
		r    scoring.Result
		want []BadgeID
	}{
		{
			name: "fast and flawless",
			r:    result("programming", 10, 10, 10, 59*time.Second),
			want: []BadgeID{BadgeFirstQuiz, BadgeStreak3, BadgePerfectQuiz, BadgeSpeedDemon, BadgeBrainMaster},
		},
		{
			name: "exactly a minute is not fast",
			r:    result("programming", 10, 10, 10, time.Minute),
			want: []BadgeID{BadgeFirstQuiz, BadgeStreak3, BadgePerfectQuiz, BadgeBrainMaster},
		},
		{
			name: "fast but short",
			r:    result("programming", 9, 9, 9, 10*time.Second),
			want: []BadgeID{BadgeFirstQuiz, BadgeStreak3, BadgePerfectQuiz},
		},
		{
			name: "fast with a miss",
			r:    result("programming", 9, 10, 5, 30*time.Second),
			want: []BadgeID{BadgeFirstQuiz, BadgeStreak3, BadgeSpeedDemon},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Commit(NewStats(), tt.r, t0)
			assert.ElementsMatch(t, tt.want, earnedIDs(out.Stats))
		})
	}
}

func TestCommit_TopAndWeakest(t *testing.T) {
	s := NewStats()
	s = Commit(s, result("art", 3, 4, 3, time.Minute), t0).Stats     // 75%
	s = Commit(s, result("history", 1, 4, 1, time.Minute), t0).Stats // 25%
	assert.Equal(t, "art", s.TopCategory)
	assert.Equal(t, "history", s.WeakestCategory)

	// Same accuracy as art but more attempts wins the top slot.
	s = Commit(s, result("science", 6, 8, 3, time.Minute), t0).Stats
	assert.Equal(t, "science", s.TopCategory)

	// Same accuracy and attempts as history, history was first.
	s = Commit(s, result("physics", 1, 4, 1, time.Minute), t0).Stats
	assert.Equal(t, "history", s.WeakestCategory)

	assert.Equal(t, []string{"art", "history", "science", "physics"}, s.CategoryOrder)
}

func TestCommit_SingleCategory(t *testing.T) {
	s := Commit(NewStats(), result("art", 1, 2, 1, time.Minute), t0).Stats
	assert.Equal(t, "art", s.TopCategory)
	assert.Equal(t, "art", s.WeakestCategory)
}

func TestCommit_EmptyResultNoDivision(t *testing.T) {
	s := Commit(NewStats(), result("art", 0, 0, 0, 0), t0).Stats
	assert.Equal(t, 0, s.AverageScorePercent())
	assert.Equal(t, "", s.TopCategory)
	assert.Equal(t, 1, s.TotalQuizzes)
}

func TestCommit_RankUpEvent(t *testing.T) {
	prev := NewStats()
	prev.TotalXP = 350 // level 2

	out := Commit(prev, result("art", 5, 5, 5, 2*time.Minute), t0) // +100
	require.Equal(t, 3, out.Stats.Level())

	var rankUp *Event
	for i, e := range out.Events {
		if e.Kind == EventRankUp {
			rankUp = &out.Events[i]
		}
	}
	require.NotNil(t, rankUp)
	assert.Equal(t, RankNovice, rankUp.FromRank)
	assert.Equal(t, RankKnowledgeSeeker, rankUp.ToRank)
	assert.Equal(t, "New rank: Knowledge Seeker", rankUp.Message())
}

func TestUserStats_Normalize(t *testing.T) {
	s := UserStats{
		PerCategory: map[string]Tally{"b": {1, 2}, "a": {1, 1}},
		Badges:      []Badge{{ID: BadgeStreak3, Earned: true, EarnedAt: t0}},
	}
	s.Normalize()

	assert.Len(t, s.Badges, len(Catalog()))
	b, _ := s.Badge(BadgeStreak3)
	assert.True(t, b.Earned)
	assert.Equal(t, "On Fire", b.Name)
	assert.Equal(t, []string{"a", "b"}, s.CategoryOrder)
}
