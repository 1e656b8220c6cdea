package questionbank

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/difficulty"
)

//go:embed seed.yaml
var seedYAML []byte

// questionFile is the on-disk layout shared by the seed and imports.
type questionFile struct {
	Questions []questionRecord `yaml:"questions"`
}

type questionRecord struct {
	ID          string   `yaml:"id"`
	Category    string   `yaml:"category"`
	Tier        string   `yaml:"tier"`
	Prompt      string   `yaml:"prompt"`
	Choices     []string `yaml:"choices"`
	Answer      int      `yaml:"answer"`
	Explanation string   `yaml:"explanation,omitempty"`
}

// ParseYAML decodes a question file. Each question is validated and tagged
// with source.
func ParseYAML(r io.Reader, source string) ([]Question, error) {
	var f questionFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	out := make([]Question, 0, len(f.Questions))
	for i, rec := range f.Questions {
		tier, err := difficulty.Parse(rec.Tier)
		if err != nil {
			return nil, fmt.Errorf("question %d (%s): %w", i, rec.ID, err)
		}
		q := Question{
			ID:          rec.ID,
			CategoryID:  rec.Category,
			Tier:        tier,
			Prompt:      rec.Prompt,
			Choices:     rec.Choices,
			Answer:      rec.Answer,
			Explanation: rec.Explanation,
			Source:      source,
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		out = append(out, q)
	}
	return out, nil
}

// MarshalYAML encodes questions in the import format.
func MarshalYAML(questions []Question) ([]byte, error) {
	f := questionFile{Questions: make([]questionRecord, 0, len(questions))}
	for _, q := range questions {
		f.Questions = append(f.Questions, questionRecord{
			ID:          q.ID,
			Category:    q.CategoryID,
			Tier:        q.Tier.String(),
			Prompt:      q.Prompt,
			Choices:     q.Choices,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		})
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}
	return buf.Bytes(), nil
}

// SeedQuestions returns the questions shipped with the binary.
func SeedQuestions() ([]Question, error) {
	return ParseYAML(bytes.NewReader(seedYAML), "seed")
}

// Seed builds the default in-memory bank from the embedded questions.
func Seed(catalog *category.Catalog) (*Memory, error) {
	qs, err := SeedQuestions()
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}
	return NewMemory(catalog, qs)
}
