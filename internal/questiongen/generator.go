// Package questiongen tops up a question bank with model-written
// questions when a category and tier run low.
package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/difficulty"
	"github.com/abhisek/quizzy/internal/llm"
	"github.com/abhisek/quizzy/internal/questionbank"
)

// Purpose labels generation requests in the LLM request log.
const Purpose = "question-gen"

// Saver persists generated questions. store.QuestionRepo implements it.
type Saver interface {
	Save(ctx context.Context, questions []questionbank.Question) (int, error)
}

// Config controls generation.
type Config struct {
	// MinPool is the pool size below which a batch is generated.
	MinPool int

	// BatchSize is the number of questions requested per call.
	BatchSize int

	MaxTokens   int
	Temperature float64

	// MaxPriorQuestions caps the prompts listed as already asked.
	MaxPriorQuestions int

	// Validators run in order on every generated question.
	Validators []Validator
}

func DefaultConfig() Config {
	return Config{
		MinPool:           8,
		BatchSize:         6,
		MaxTokens:         2048,
		Temperature:       0.8,
		MaxPriorQuestions: 30,
		Validators:        []Validator{StructuralValidator{}, DedupValidator{}},
	}
}

type poolKey struct {
	category string
	tier     difficulty.Tier
}

// Generator is a questionbank.Bank layered over base. Questions from base
// come first, followed by the ones generated in this process.
type Generator struct {
	base     questionbank.Bank
	provider llm.Provider
	saver    Saver
	config   Config

	mu        sync.Mutex
	generated map[poolKey][]questionbank.Question
	inflight  map[poolKey]*sync.Mutex
}

type Option func(*Generator)

// WithSaver persists every accepted batch.
func WithSaver(s Saver) Option {
	return func(g *Generator) { g.saver = s }
}

func WithConfig(cfg Config) Option {
	return func(g *Generator) { g.config = cfg }
}

func New(base questionbank.Bank, provider llm.Provider, opts ...Option) *Generator {
	g := &Generator{
		base:      base,
		provider:  provider,
		config:    DefaultConfig(),
		generated: make(map[poolKey][]questionbank.Question),
		inflight:  make(map[poolKey]*sync.Mutex),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *Generator) Category(id string) (category.Category, bool) { return g.base.Category(id) }

func (g *Generator) Categories() []category.Category { return g.base.Categories() }

// QuestionsFor implements questionbank.Bank. When the pool for a real
// category is smaller than MinPool a batch is generated first. A failed
// generation is logged; whatever the pool holds is still returned.
func (g *Generator) QuestionsFor(ctx context.Context, categoryID string, tier difficulty.Tier) ([]questionbank.Question, error) {
	if categoryID == category.AllID {
		return g.base.QuestionsFor(ctx, categoryID, tier)
	}
	if _, ok := g.base.Category(categoryID); !ok {
		return nil, fmt.Errorf("%w: unknown category %q", questionbank.ErrNoQuestionsAvailable, categoryID)
	}

	key := poolKey{categoryID, tier}
	lock := g.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	pool, err := g.pool(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(pool) >= g.config.MinPool {
		return pool, nil
	}

	added, genErr := g.generate(ctx, key, pool)
	pool = append(pool, added...)
	if genErr != nil {
		if len(pool) == 0 {
			return nil, fmt.Errorf("%w: %s at %s: %v", questionbank.ErrNoQuestionsAvailable, categoryID, tier, genErr)
		}
		slog.Warn("question generation failed, using existing pool",
			"category", categoryID, "tier", tier, "pool", len(pool), "err", genErr)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: %s at %s", questionbank.ErrNoQuestionsAvailable, categoryID, tier)
	}
	return pool, nil
}

// Warm fills the pools of every tier of categoryID concurrently.
func (g *Generator) Warm(ctx context.Context, categoryID string) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, tier := range difficulty.AllTiers() {
		eg.Go(func() error {
			_, err := g.QuestionsFor(ctx, categoryID, tier)
			return err
		})
	}
	return eg.Wait()
}

// Generated returns how many questions this generator has added for a
// category and tier.
func (g *Generator) Generated(categoryID string, tier difficulty.Tier) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.generated[poolKey{categoryID, tier}])
}

func (g *Generator) keyLock(key poolKey) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.inflight[key]
	if !ok {
		l = &sync.Mutex{}
		g.inflight[key] = l
	}
	return l
}

// pool merges base questions with generated ones, dropping ids already
// present in base (a saved batch shows up there on later calls).
func (g *Generator) pool(ctx context.Context, key poolKey) ([]questionbank.Question, error) {
	base, err := g.base.QuestionsFor(ctx, key.category, key.tier)
	if err != nil && !errors.Is(err, questionbank.ErrNoQuestionsAvailable) {
		return nil, err
	}
	seen := make(map[string]bool, len(base))
	for _, q := range base {
		seen[q.ID] = true
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, q := range g.generated[key] {
		if !seen[q.ID] {
			base = append(base, q)
		}
	}
	return base, nil
}

func (g *Generator) generate(ctx context.Context, key poolKey, pool []questionbank.Question) ([]questionbank.Question, error) {
	cat, _ := g.base.Category(key.category)

	prior := make(map[string]bool, len(pool))
	prompts := make([]string, 0, len(pool))
	for _, q := range pool {
		prior[normalizePrompt(q.Prompt)] = true
		prompts = append(prompts, q.Prompt)
	}

	req := llm.Prompt(systemPrompt, buildUserMessage(cat, key.tier, g.config.BatchSize, prompts, g.config.MaxPriorQuestions))
	req.Schema = BatchSchema
	req.MaxTokens = g.config.MaxTokens
	req.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(llm.WithPurpose(ctx, Purpose), req)
	if err != nil {
		return nil, fmt.Errorf("generate %s/%s: %w", key.category, key.tier, err)
	}
	var out batchOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}

	source := "llm:" + resp.Model
	var accepted []questionbank.Question
	for _, raw := range out.Questions {
		q := questionbank.Question{
			ID:          uuid.NewString(),
			CategoryID:  key.category,
			Tier:        key.tier,
			Prompt:      strings.TrimSpace(raw.Prompt),
			Choices:     trimAll(raw.Choices),
			Answer:      raw.AnswerIndex,
			Explanation: strings.TrimSpace(raw.Explanation),
			Source:      source,
		}
		if verr := g.check(q, prior); verr != nil {
			slog.Debug("generated question rejected", "category", key.category, "tier", key.tier, "err", verr)
			continue
		}
		prior[normalizePrompt(q.Prompt)] = true
		accepted = append(accepted, q)
	}
	if len(accepted) == 0 {
		return nil, fmt.Errorf("generate %s/%s: no usable questions in batch of %d", key.category, key.tier, len(out.Questions))
	}

	g.mu.Lock()
	g.generated[key] = append(g.generated[key], accepted...)
	g.mu.Unlock()

	if g.saver != nil {
		if _, err := g.saver.Save(context.WithoutCancel(ctx), accepted); err != nil {
			slog.Warn("save generated questions", "category", key.category, "tier", key.tier, "err", err)
		}
	}
	slog.Info("generated questions", "category", key.category, "tier", key.tier, "accepted", len(accepted), "offered", len(out.Questions))
	return accepted, nil
}

func (g *Generator) check(q questionbank.Question, prior map[string]bool) *ValidationError {
	for _, v := range g.config.Validators {
		if err := v.Validate(q, prior); err != nil {
			return err
		}
	}
	return nil
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
