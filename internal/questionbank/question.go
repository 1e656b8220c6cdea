package questionbank

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/quizzy/internal/difficulty"
)

var (
	// ErrNoQuestionsAvailable is returned when a category has no content at
	// the requested tier.
	ErrNoQuestionsAvailable = errors.New("no questions available")

	// ErrInvalidQuestion is returned when a question fails structural checks.
	ErrInvalidQuestion = errors.New("invalid question")
)

// Question is one multiple-choice question. Immutable once issued.
type Question struct {
	// ID is stable across runs. Seeded questions carry a readable slug,
	// generated ones a UUID.
	ID string

	// CategoryID is the category the question belongs to.
	CategoryID string

	// Tier is the difficulty tier the question is filed under.
	Tier difficulty.Tier

	// Prompt is the question text shown to the player.
	Prompt string

	// Choices holds the ordered answer options.
	Choices []string

	// Answer is the index into Choices of the correct option.
	Answer int

	// Explanation is an optional note shown after answering.
	Explanation string

	// Source records where the question came from ("seed", "import", "llm").
	Source string
}

// IsCorrect reports whether choice is the correct option.
func (q Question) IsCorrect(choice int) bool {
	return choice == q.Answer
}

// ValidChoice reports whether choice indexes one of the options.
func (q Question) ValidChoice(choice int) bool {
	return choice >= 0 && choice < len(q.Choices)
}

// CorrectChoice returns the text of the correct option.
func (q Question) CorrectChoice() string {
	if !q.ValidChoice(q.Answer) {
		return ""
	}
	return q.Choices[q.Answer]
}

// Validate checks the structural rules every question must satisfy.
func (q Question) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidQuestion)
	}
	if strings.TrimSpace(q.CategoryID) == "" {
		return fmt.Errorf("%w %s: missing category", ErrInvalidQuestion, q.ID)
	}
	if !q.Tier.Valid() {
		return fmt.Errorf("%w %s: unknown tier %d", ErrInvalidQuestion, q.ID, int(q.Tier))
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w %s: empty prompt", ErrInvalidQuestion, q.ID)
	}
	if len(q.Choices) < 2 {
		return fmt.Errorf("%w %s: need at least 2 choices, got %d", ErrInvalidQuestion, q.ID, len(q.Choices))
	}
	seen := make(map[string]bool, len(q.Choices))
	for i, c := range q.Choices {
		norm := strings.ToLower(strings.TrimSpace(c))
		if norm == "" {
			return fmt.Errorf("%w %s: choice %d is empty", ErrInvalidQuestion, q.ID, i)
		}
		if seen[norm] {
			return fmt.Errorf("%w %s: duplicate choice %q", ErrInvalidQuestion, q.ID, c)
		}
		seen[norm] = true
	}
	if !q.ValidChoice(q.Answer) {
		return fmt.Errorf("%w %s: answer index %d out of range", ErrInvalidQuestion, q.ID, q.Answer)
	}
	return nil
}
