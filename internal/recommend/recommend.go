// Package recommend suggests what to play next from a user's stats.
package recommend

import (
	"iter"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/progression"
)

// DefaultLimit is the number of suggestions shown on the dashboard.
const DefaultLimit = 2

// Reason explains why a category was suggested.
type Reason string

const (
	ReasonWeakest Reason = "weakest"
	ReasonRelated Reason = "related"
	ReasonStarter Reason = "starter"
)

// Label returns a short human-readable explanation.
func (r Reason) Label() string {
	switch r {
	case ReasonWeakest:
		return "Needs practice"
	case ReasonRelated:
		return "Builds on your strongest topic"
	case ReasonStarter:
		return "A good place to start"
	default:
		return string(r)
	}
}

// Recommendation pairs a category with its curated topic.
type Recommendation struct {
	Category category.Category
	Topic    category.Topic
	Reason   Reason
}

// Recommend yields up to DefaultLimit suggestions.
func Recommend(stats progression.UserStats, catalog *category.Catalog) iter.Seq[Recommendation] {
	return RecommendN(stats, catalog, DefaultLimit)
}

// RecommendN yields up to limit suggestions: the weakest category first,
// then categories sharing a theme with the top category. Categories without
// a curated topic are skipped. A user with no history gets starter topics in
// catalog order. The sequence holds no state and can be ranged repeatedly.
func RecommendN(stats progression.UserStats, catalog *category.Catalog, limit int) iter.Seq[Recommendation] {
	return func(yield func(Recommendation) bool) {
		if limit <= 0 || catalog == nil {
			return
		}
		emitted := 0
		seen := make(map[string]bool)
		emit := func(id string, reason Reason) bool {
			if id == "" || seen[id] {
				return true
			}
			seen[id] = true
			cat, ok := catalog.Get(id)
			if !ok {
				return true
			}
			topic, ok := catalog.Topic(id)
			if !ok {
				return true
			}
			emitted++
			if !yield(Recommendation{Category: cat, Topic: topic, Reason: reason}) {
				return false
			}
			return emitted < limit
		}

		if stats.TopCategory == "" && stats.WeakestCategory == "" {
			for _, cat := range catalog.All() {
				if !emit(cat.ID, ReasonStarter) {
					return
				}
			}
			return
		}

		if !emit(stats.WeakestCategory, ReasonWeakest) {
			return
		}
		for _, cat := range catalog.Adjacent(stats.TopCategory) {
			if !emit(cat.ID, ReasonRelated) {
				return
			}
		}
	}
}

// Collect drains a recommendation sequence into a slice.
func Collect(seq iter.Seq[Recommendation]) []Recommendation {
	var out []Recommendation
	for r := range seq {
		out = append(out, r)
	}
	return out
}
