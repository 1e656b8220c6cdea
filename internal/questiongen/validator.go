package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizzy/internal/questionbank"
)

// Validator checks one generated question. prior holds the normalized
// prompts already known for the same category and tier.
type Validator interface {
	Name() string
	Validate(q questionbank.Question, prior map[string]bool) *ValidationError
}

// ValidationError says which check rejected a question.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

const (
	maxPromptLen      = 300
	maxChoiceLen      = 120
	maxExplanationLen = 500
)

// StructuralValidator enforces the question shape: four distinct options,
// an answer inside them, and bounded text lengths.
type StructuralValidator struct{}

func (StructuralValidator) Name() string { return "structural" }

func (v StructuralValidator) Validate(q questionbank.Question, _ map[string]bool) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}
	switch {
	case len(q.Choices) != ChoiceCount:
		return fail("want %d choices, got %d", ChoiceCount, len(q.Choices))
	case len(q.Prompt) > maxPromptLen:
		return fail("prompt longer than %d bytes", maxPromptLen)
	case len(q.Explanation) > maxExplanationLen:
		return fail("explanation longer than %d bytes", maxExplanationLen)
	}
	for i, c := range q.Choices {
		if len(c) > maxChoiceLen {
			return fail("choice %d longer than %d bytes", i, maxChoiceLen)
		}
	}
	if err := q.Validate(); err != nil {
		return fail("%v", err)
	}
	return nil
}

// DedupValidator rejects prompts already asked for the category and tier.
type DedupValidator struct{}

func (DedupValidator) Name() string { return "dedup" }

func (v DedupValidator) Validate(q questionbank.Question, prior map[string]bool) *ValidationError {
	if prior[normalizePrompt(q.Prompt)] {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("duplicate prompt %q", q.Prompt)}
	}
	return nil
}

func normalizePrompt(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
