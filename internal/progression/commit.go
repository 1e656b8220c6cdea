package progression

import (
	"fmt"
	"time"

	"github.com/abhisek/quizzy/internal/scoring"
)

// EventKind labels something noteworthy that happened during a commit.
type EventKind string

const (
	EventBadgeEarned EventKind = "badge_earned"
	EventLevelUp     EventKind = "level_up"
	EventRankUp      EventKind = "rank_up"
)

// Event is returned to the caller, which decides how to surface it.
type Event struct {
	Kind EventKind `json:"kind"`

	// Badge is set for EventBadgeEarned.
	Badge *Badge `json:"badge,omitempty"`

	// From and To are levels for EventLevelUp.
	From int `json:"from,omitempty"`
	To   int `json:"to,omitempty"`

	// FromRank and ToRank are set for EventRankUp.
	FromRank string `json:"from_rank,omitempty"`
	ToRank   string `json:"to_rank,omitempty"`
}

// Message renders the event as a one-line notification.
func (e Event) Message() string {
	switch e.Kind {
	case EventBadgeEarned:
		if e.Badge == nil {
			return "Badge earned!"
		}
		return fmt.Sprintf("%s Badge earned: %s", e.Badge.Icon, e.Badge.Name)
	case EventLevelUp:
		return fmt.Sprintf("Level up! You reached level %d", e.To)
	case EventRankUp:
		return fmt.Sprintf("New rank: %s", e.ToRank)
	default:
		return string(e.Kind)
	}
}

// Outcome is the product of applying one result.
type Outcome struct {
	Stats       UserStats
	Result      scoring.Result
	Events      []Event
	LeveledUp   bool
	CommittedAt time.Time
}

// BadgesEarned returns the badges earned by this commit.
func (o Outcome) BadgesEarned() []Badge {
	var out []Badge
	for _, e := range o.Events {
		if e.Kind == EventBadgeEarned && e.Badge != nil {
			out = append(out, *e.Badge)
		}
	}
	return out
}

// Commit folds result into prev and returns the new snapshot. prev is never
// modified. Applying the same result twice counts two quizzes.
func Commit(prev UserStats, result scoring.Result, now time.Time) Outcome {
	next := prev.Clone()
	next.Normalize()

	oldLevel := prev.Level()
	oldRank := prev.Rank()

	next.TotalQuizzes++
	next.TotalCorrect += result.CorrectCount
	next.TotalQuestions += result.TotalCount
	next.TotalXP += result.XPAwarded
	next.LongestStreak = max(next.LongestStreak, result.BestStreak)

	if result.Category != "" {
		t, seen := next.PerCategory[result.Category]
		if !seen {
			next.CategoryOrder = append(next.CategoryOrder, result.Category)
		}
		t.Correct += result.CorrectCount
		t.Total += result.TotalCount
		next.PerCategory[result.Category] = t
	}
	next.TopCategory, next.WeakestCategory = next.categoryExtremes()

	var events []Event
	for _, rule := range badgeRules {
		if !rule.test(next, result) {
			continue
		}
		for i := range next.Badges {
			b := &next.Badges[i]
			if b.ID != rule.id || b.Earned {
				continue
			}
			b.Earned = true
			b.EarnedAt = now
			earned := *b
			events = append(events, Event{Kind: EventBadgeEarned, Badge: &earned})
		}
	}

	out := Outcome{
		Stats:       next,
		Result:      result,
		CommittedAt: now,
	}
	if level := next.Level(); level > oldLevel {
		out.LeveledUp = true
		events = append(events, Event{Kind: EventLevelUp, From: oldLevel, To: level})
	}
	if rank := next.Rank(); rank != oldRank {
		events = append(events, Event{Kind: EventRankUp, FromRank: oldRank, ToRank: rank})
	}
	out.Events = events
	return out
}
