package progression

import (
	"maps"
	"math"
	"slices"
)

// Tally is the per-category correctness count.
type Tally struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Accuracy returns Correct/Total, 0 when nothing was attempted.
func (t Tally) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total)
}

// UserStats is one user's durable progression record. Level, rank and
// average score are derived on read and never stored.
type UserStats struct {
	TotalQuizzes   int `json:"total_quizzes"`
	TotalCorrect   int `json:"total_correct"`
	TotalQuestions int `json:"total_questions"`
	TotalXP        int `json:"total_xp"`
	LongestStreak  int `json:"longest_streak"`

	// PerCategory is keyed by category id. CategoryOrder lists the keys in
	// the order they were first seen and drives tie-breaks.
	PerCategory   map[string]Tally `json:"per_category"`
	CategoryOrder []string         `json:"category_order"`

	TopCategory     string `json:"top_category,omitempty"`
	WeakestCategory string `json:"weakest_category,omitempty"`

	Badges []Badge `json:"badges"`

	// CompletedChallenges is carried for display. Nothing in the quiz flow
	// increments it yet.
	CompletedChallenges int `json:"completed_challenges"`
}

// NewStats returns an empty record with the full badge catalog unearned.
func NewStats() UserStats {
	return UserStats{
		PerCategory: make(map[string]Tally),
		Badges:      Catalog(),
	}
}

// AverageScorePercent returns round(100*correct/questions), 0 before any
// question was answered.
func (s UserStats) AverageScorePercent() int {
	if s.TotalQuestions == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.TotalCorrect) / float64(s.TotalQuestions)))
}

// Level is derived from TotalXP.
func (s UserStats) Level() int {
	return LevelFor(s.TotalXP)
}

// Rank is derived from Level.
func (s UserStats) Rank() string {
	return RankFor(s.Level())
}

// Badge returns the badge with id.
func (s UserStats) Badge(id BadgeID) (Badge, bool) {
	for _, b := range s.Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// EarnedBadges returns the earned badges in catalog order.
func (s UserStats) EarnedBadges() []Badge {
	var out []Badge
	for _, b := range s.Badges {
		if b.Earned {
			out = append(out, b)
		}
	}
	return out
}

// Clone returns a deep copy.
func (s UserStats) Clone() UserStats {
	c := s
	c.PerCategory = maps.Clone(s.PerCategory)
	c.CategoryOrder = slices.Clone(s.CategoryOrder)
	c.Badges = slices.Clone(s.Badges)
	return c
}

// Normalize fills in anything a stored record may lack: a nil tally map,
// badges added to the catalog after the record was written, and category
// order entries for tallied categories.
func (s *UserStats) Normalize() {
	if s.PerCategory == nil {
		s.PerCategory = make(map[string]Tally)
	}

	have := make(map[BadgeID]Badge, len(s.Badges))
	for _, b := range s.Badges {
		have[b.ID] = b
	}
	badges := Catalog()
	for i, def := range badges {
		if stored, ok := have[def.ID]; ok {
			badges[i].Earned = stored.Earned
			badges[i].EarnedAt = stored.EarnedAt
		}
	}
	s.Badges = badges

	ordered := make(map[string]bool, len(s.CategoryOrder))
	var order []string
	for _, id := range s.CategoryOrder {
		if _, ok := s.PerCategory[id]; ok && !ordered[id] {
			ordered[id] = true
			order = append(order, id)
		}
	}
	var missing []string
	for id := range s.PerCategory {
		if !ordered[id] {
			missing = append(missing, id)
		}
	}
	slices.Sort(missing)
	s.CategoryOrder = append(order, missing...)
}

// categoryExtremes returns the categories with the highest and lowest
// accuracy among those attempted. Ties go to more attempts, then to the
// category seen first.
func (s UserStats) categoryExtremes() (top, weakest string) {
	var topT, weakT Tally
	for _, id := range s.CategoryOrder {
		t := s.PerCategory[id]
		if t.Total == 0 {
			continue
		}
		if top == "" {
			top, topT, weakest, weakT = id, t, id, t
			continue
		}
		// Accuracies compared by cross-multiplication to stay exact.
		switch c := t.Correct*topT.Total - topT.Correct*t.Total; {
		case c > 0, c == 0 && t.Total > topT.Total:
			top, topT = id, t
		}
		switch c := t.Correct*weakT.Total - weakT.Correct*t.Total; {
		case c < 0, c == 0 && t.Total > weakT.Total:
			weakest, weakT = id, t
		}
	}
	return top, weakest
}
