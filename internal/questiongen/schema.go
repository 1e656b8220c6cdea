package questiongen

import "github.com/abhisek/quizzy/internal/llm"

// ChoiceCount is the number of options every generated question carries.
const ChoiceCount = 4

// BatchSchema is the response shape requested from the model.
var BatchSchema = &llm.Schema{
	Name:        "quiz-question-batch",
	Description: "A batch of multiple-choice quiz questions for one category and difficulty",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt": map[string]any{
							"type":        "string",
							"description": "The question shown to the player, one or two sentences",
						},
						"choices": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    ChoiceCount,
							"maxItems":    ChoiceCount,
							"description": "Exactly four distinct answer options",
						},
						"answer_index": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     ChoiceCount - 1,
							"description": "Zero-based index of the correct option in choices",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One sentence on why the answer is correct",
						},
					},
					"required":             []string{"prompt", "choices", "answer_index", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"questions"},
		"additionalProperties": false,
	},
}

type batchOutput struct {
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	Prompt      string   `json:"prompt"`
	Choices     []string `json:"choices"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation"`
}
