package questionbank

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/difficulty"
)

type failingBank struct {
	err   error
	calls int
}

func (f *failingBank) QuestionsFor(context.Context, string, difficulty.Tier) ([]Question, error) {
	f.calls++
	return nil, f.err
}

func (f *failingBank) Category(string) (category.Category, bool) { return category.Category{}, false }

func (f *failingBank) Categories() []category.Category { return nil }

func TestChain_MergesPools(t *testing.T) {
	first, err := NewMemory(category.Default(), []Question{
		q("shared", "science", difficulty.TierEasy),
		q("first-easy", "science", difficulty.TierEasy),
	})
	require.NoError(t, err)
	second, err := NewMemory(category.Default(), []Question{
		q("shared", "science", difficulty.TierEasy),
		q("second-easy", "science", difficulty.TierEasy),
		q("second-hard", "science", difficulty.TierHard),
	})
	require.NoError(t, err)

	c := NewChain(first, nil, second)

	got, err := c.QuestionsFor(context.Background(), "science", difficulty.TierEasy)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared", "first-easy", "second-easy"}, ids(got))

	got, err = c.QuestionsFor(context.Background(), "science", difficulty.TierHard)
	require.NoError(t, err)
	assert.Equal(t, []string{"second-hard"}, ids(got))

	_, ok := c.Category("science")
	assert.True(t, ok)
	assert.Len(t, c.Categories(), len(category.Default().All()))
}

func ids(qs []Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestChain_BrokenBankDoesNotHideOthers(t *testing.T) {
	broken := &failingBank{err: errors.New("disk on fire")}
	seed, err := NewMemory(category.Default(), []Question{q("s", "science", difficulty.TierEasy)})
	require.NoError(t, err)

	got, err := NewChain(broken, seed).QuestionsFor(context.Background(), "science", difficulty.TierEasy)
	require.NoError(t, err)
	assert.Equal(t, []string{"s"}, ids(got))
}

func TestChain_SkipsBrokenBank(t *testing.T) {
	broken := &failingBank{err: errors.New("disk on fire")}
	seed, err := NewMemory(category.Default(), []Question{q("s", "science", difficulty.TierEasy)})
	require.NoError(t, err)

	c := NewChain(seed, broken)
	_, err = c.QuestionsFor(context.Background(), "science", difficulty.TierHard)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoQuestionsAvailable)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Equal(t, 1, broken.calls)
}

func TestChain_Empty(t *testing.T) {
	c := NewChain()
	_, err := c.QuestionsFor(context.Background(), "science", difficulty.TierEasy)
	assert.ErrorIs(t, err, ErrNoQuestionsAvailable)
	_, ok := c.Category("science")
	assert.False(t, ok)
	assert.Nil(t, c.Categories())
}
