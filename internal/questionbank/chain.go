package questionbank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/difficulty"
)

// Chain consults banks in order and concatenates their pools. A question id
// already seen in an earlier bank is dropped. Catalog lookups go to the
// first bank.
type Chain struct {
	banks []Bank
}

// NewChain returns a chain over banks. Nil entries are skipped.
func NewChain(banks ...Bank) *Chain {
	c := &Chain{}
	for _, b := range banks {
		if b != nil {
			c.banks = append(c.banks, b)
		}
	}
	return c
}

// QuestionsFor implements Bank. A bank that fails with anything other than
// ErrNoQuestionsAvailable is logged and skipped.
func (c *Chain) QuestionsFor(ctx context.Context, categoryID string, tier difficulty.Tier) ([]Question, error) {
	var (
		pool    []Question
		seen    = make(map[string]bool)
		lastErr error
	)
	for _, b := range c.banks {
		qs, err := b.QuestionsFor(ctx, categoryID, tier)
		if err != nil {
			if errors.Is(err, ErrNoQuestionsAvailable) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("question bank failed, trying next", "category", categoryID, "tier", tier, "err", err)
			lastErr = err
			continue
		}
		for _, q := range qs {
			if !seen[q.ID] {
				seen[q.ID] = true
				pool = append(pool, q)
			}
		}
	}
	if len(pool) > 0 {
		return pool, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %s at %s (last error: %v)", ErrNoQuestionsAvailable, categoryID, tier, lastErr)
	}
	return nil, fmt.Errorf("%w: %s at %s", ErrNoQuestionsAvailable, categoryID, tier)
}

// Category implements Bank.
func (c *Chain) Category(id string) (category.Category, bool) {
	if len(c.banks) == 0 {
		return category.Category{}, false
	}
	return c.banks[0].Category(id)
}

// Categories implements Bank.
func (c *Chain) Categories() []category.Category {
	if len(c.banks) == 0 {
		return nil
	}
	return c.banks[0].Categories()
}
