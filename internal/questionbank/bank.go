package questionbank

import (
	"context"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/difficulty"
)

// Bank supplies questions filtered by category and tier.
type Bank interface {
	// QuestionsFor returns a non-empty slice of questions or an error
	// wrapping ErrNoQuestionsAvailable.
	QuestionsFor(ctx context.Context, categoryID string, tier difficulty.Tier) ([]Question, error)

	// Category looks up a category by id.
	Category(id string) (category.Category, bool)

	// Categories lists the categories in display order.
	Categories() []category.Category
}
