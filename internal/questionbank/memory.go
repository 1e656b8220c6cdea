package questionbank

import (
	"context"
	"fmt"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/difficulty"
)

type bucketKey struct {
	category string
	tier     difficulty.Tier
}

// Memory is a read-only in-memory bank.
type Memory struct {
	catalog *category.Catalog
	buckets map[bucketKey][]Question
	// order lists categories with at least one question, first-seen.
	order []string
}

// NewMemory builds a bank from questions. Every question must validate and
// belong to a catalog category other than the meta-category.
func NewMemory(catalog *category.Catalog, questions []Question) (*Memory, error) {
	m := &Memory{
		catalog: catalog,
		buckets: make(map[bucketKey][]Question),
	}
	ids := make(map[string]bool, len(questions))
	seen := make(map[string]bool)
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if ids[q.ID] {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidQuestion, q.ID)
		}
		ids[q.ID] = true
		if q.CategoryID == category.AllID {
			return nil, fmt.Errorf("%w %s: cannot file under %q", ErrInvalidQuestion, q.ID, category.AllID)
		}
		if _, ok := catalog.Get(q.CategoryID); !ok {
			return nil, fmt.Errorf("%w %s: unknown category %q", ErrInvalidQuestion, q.ID, q.CategoryID)
		}
		k := bucketKey{q.CategoryID, q.Tier}
		m.buckets[k] = append(m.buckets[k], cloneQuestion(q))
		if !seen[q.CategoryID] {
			seen[q.CategoryID] = true
			m.order = append(m.order, q.CategoryID)
		}
	}
	return m, nil
}

// QuestionsFor implements Bank. The meta-category draws from every
// category at the requested tier.
func (m *Memory) QuestionsFor(_ context.Context, categoryID string, tier difficulty.Tier) ([]Question, error) {
	var out []Question
	if categoryID == category.AllID {
		for _, id := range m.order {
			out = append(out, m.buckets[bucketKey{id, tier}]...)
		}
	} else {
		out = append(out, m.buckets[bucketKey{categoryID, tier}]...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s at %s", ErrNoQuestionsAvailable, categoryID, tier)
	}
	return out, nil
}

// Category implements Bank.
func (m *Memory) Category(id string) (category.Category, bool) {
	return m.catalog.Get(id)
}

// Categories implements Bank.
func (m *Memory) Categories() []category.Category {
	return m.catalog.All()
}

// Count returns the number of questions per tier for a category.
func (m *Memory) Count(categoryID string) map[difficulty.Tier]int {
	counts := make(map[difficulty.Tier]int, 3)
	for _, t := range difficulty.AllTiers() {
		counts[t] = len(m.buckets[bucketKey{categoryID, t}])
	}
	return counts
}

func cloneQuestion(q Question) Question {
	q.Choices = append([]string(nil), q.Choices...)
	return q
}
