package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/difficulty"
	"github.com/abhisek/quizzy/internal/llm"
	"github.com/abhisek/quizzy/internal/questionbank"
)

func seedBank(t *testing.T, perTier int) *questionbank.Memory {
	t.Helper()
	var qs []questionbank.Question
	for _, tier := range difficulty.AllTiers() {
		for i := range perTier {
			qs = append(qs, questionbank.Question{
				ID:         fmt.Sprintf("sci-%s-%d", tier, i),
				CategoryID: "science",
				Tier:       tier,
				Prompt:     fmt.Sprintf("Seeded %s question %d?", tier, i),
				Choices:    []string{"a", "b", "c", "d"},
				Answer:     0,
				Source:     "seed",
			})
		}
	}
	m, err := questionbank.NewMemory(category.Default(), qs)
	require.NoError(t, err)
	return m
}

type item struct {
	Prompt      string   `json:"prompt"`
	Choices     []string `json:"choices"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation"`
}

func batch(t *testing.T, items ...item) llm.MockResponse {
	t.Helper()
	b, err := json.Marshal(map[string]any{"questions": items})
	require.NoError(t, err)
	return llm.MockResponse{Content: b}
}

func good(prompt string) item {
	return item{Prompt: prompt, Choices: []string{"Mercury", "Venus", "Earth", "Mars"}, AnswerIndex: 2, Explanation: "Third rock."}
}

type fakeSaver struct {
	mu    sync.Mutex
	saved []questionbank.Question
	err   error
}

func (f *fakeSaver) Save(_ context.Context, qs []questionbank.Question) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, qs...)
	return len(qs), f.err
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.MinPool = 4
	cfg.BatchSize = 3
	return cfg
}

func TestQuestionsFor_FullPoolSkipsModel(t *testing.T) {
	mock := llm.NewMockProvider()
	g := New(seedBank(t, 4), mock, WithConfig(smallConfig()))

	qs, err := g.QuestionsFor(context.Background(), "science", difficulty.TierEasy)
	require.NoError(t, err)
	assert.Len(t, qs, 4)
	assert.Zero(t, mock.CallCount())
}

func TestQuestionsFor_TopsUpThinPool(t *testing.T) {
	mock := llm.NewMockProvider(batch(t, good("Which planet do we live on?"), good("Which planet is third from the Sun?")))
	saver := &fakeSaver{}
	g := New(seedBank(t, 2), mock, WithConfig(smallConfig()), WithSaver(saver))

	qs, err := g.QuestionsFor(context.Background(), "science", difficulty.TierHard)
	require.NoError(t, err)
	require.Len(t, qs, 4)
	assert.Equal(t, "seed", qs[0].Source, "base questions come first")

	added := qs[2]
	assert.Equal(t, "science", added.CategoryID)
	assert.Equal(t, difficulty.TierHard, added.Tier)
	assert.Equal(t, "llm:mock", added.Source)
	assert.Equal(t, "Earth", added.CorrectChoice())
	assert.NotEmpty(t, added.ID)

	assert.Len(t, saver.saved, 2)
	assert.Equal(t, 2, g.Generated("science", difficulty.TierHard))

	// Pool is now full; no second call.
	_, err = g.QuestionsFor(context.Background(), "science", difficulty.TierHard)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestQuestionsFor_RequestShape(t *testing.T) {
	mock := llm.NewMockProvider(batch(t, good("Which planet do we live on?")))
	g := New(seedBank(t, 1), mock, WithConfig(smallConfig()))

	_, err := g.QuestionsFor(context.Background(), "science", difficulty.TierMedium)
	require.NoError(t, err)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	req := calls[0]
	assert.Equal(t, BatchSchema, req.Schema)
	msg := req.Messages[0].Content
	assert.Contains(t, msg, "Category: Science")
	assert.Contains(t, msg, "Difficulty: Medium")
	assert.Contains(t, msg, "Number of questions: 3")
	assert.Contains(t, msg, "1. Seeded medium question 0?")
}

func TestQuestionsFor_RejectsBadItems(t *testing.T) {
	dupChoices := good("Which planet has rings?")
	dupChoices.Choices = []string{"Saturn", "saturn", "Mars", "Venus"}
	empty := good("   ")
	repeat := good("Seeded easy question 0?")
	mock := llm.NewMockProvider(batch(t,
		dupChoices,
		empty,
		repeat,
		good("Which gas do plants absorb?"),
		good("which GAS do plants   absorb?"),
	))
	g := New(seedBank(t, 1), mock, WithConfig(smallConfig()))

	qs, err := g.QuestionsFor(context.Background(), "science", difficulty.TierEasy)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "Which gas do plants absorb?", qs[1].Prompt)
}

func TestQuestionsFor_GenerationFailure(t *testing.T) {
	t.Run("existing pool is returned", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
		g := New(seedBank(t, 2), mock, WithConfig(smallConfig()))

		qs, err := g.QuestionsFor(context.Background(), "science", difficulty.TierEasy)
		require.NoError(t, err)
		assert.Len(t, qs, 2)
	})

	t.Run("empty pool reports no questions", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
		g := New(seedBank(t, 0), mock, WithConfig(smallConfig()))

		_, err := g.QuestionsFor(context.Background(), "science", difficulty.TierEasy)
		require.Error(t, err)
		assert.True(t, errors.Is(err, questionbank.ErrNoQuestionsAvailable))
		var unavail *llm.ErrProviderUnavailable
		assert.False(t, errors.As(err, &unavail), "provider error is reported, not wrapped")
	})

	t.Run("batch with nothing usable", func(t *testing.T) {
		mock := llm.NewMockProvider(batch(t, good("Seeded easy question 0?")))
		g := New(seedBank(t, 1), mock, WithConfig(smallConfig()))

		qs, err := g.QuestionsFor(context.Background(), "science", difficulty.TierEasy)
		require.NoError(t, err)
		assert.Len(t, qs, 1)
		assert.Zero(t, g.Generated("science", difficulty.TierEasy))
	})
}

func TestQuestionsFor_SaveFailureKeepsQuestions(t *testing.T) {
	mock := llm.NewMockProvider(batch(t, good("Which planet do we live on?")))
	g := New(seedBank(t, 0), mock, WithConfig(smallConfig()), WithSaver(&fakeSaver{err: errors.New("read-only")}))

	qs, err := g.QuestionsFor(context.Background(), "science", difficulty.TierEasy)
	require.NoError(t, err)
	assert.Len(t, qs, 1)
}

func TestQuestionsFor_AllAndUnknownSkipModel(t *testing.T) {
	mock := llm.NewMockProvider()
	g := New(seedBank(t, 1), mock, WithConfig(smallConfig()))

	qs, err := g.QuestionsFor(context.Background(), category.AllID, difficulty.TierEasy)
	require.NoError(t, err)
	assert.Len(t, qs, 1)

	_, err = g.QuestionsFor(context.Background(), "astrology", difficulty.TierEasy)
	assert.ErrorIs(t, err, questionbank.ErrNoQuestionsAvailable)
	assert.Zero(t, mock.CallCount())
}

func TestWarm(t *testing.T) {
	mock := llm.NewMockProvider(
		batch(t, good("Warm question one?")),
		batch(t, good("Warm question two?")),
		batch(t, good("Warm question three?")),
	)
	g := New(seedBank(t, 1), mock, WithConfig(smallConfig()))

	require.NoError(t, g.Warm(context.Background(), "science"))
	assert.Equal(t, 3, mock.CallCount())
	for _, tier := range difficulty.AllTiers() {
		assert.Equal(t, 1, g.Generated("science", tier), tier.String())
	}
	for _, c := range mock.Calls() {
		assert.True(t, strings.Contains(c.Messages[0].Content, "Category: Science"))
	}
}

func TestWarm_ReportsEmptyTier(t *testing.T) {
	g := New(seedBank(t, 0), llm.NewMockProvider(), WithConfig(smallConfig()))
	assert.ErrorIs(t, g.Warm(context.Background(), "science"), questionbank.ErrNoQuestionsAvailable)
}

func TestGenerator_Catalog(t *testing.T) {
	g := New(seedBank(t, 0), llm.NewMockProvider())
	c, ok := g.Category("physics")
	require.True(t, ok)
	assert.Equal(t, "Physics", c.Name)
	assert.Equal(t, len(category.Default().All()), len(g.Categories()))
}
