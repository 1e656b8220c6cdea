package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/difficulty"
	"github.com/abhisek/quizzy/internal/progression"
	"github.com/abhisek/quizzy/internal/questionbank"
	"github.com/abhisek/quizzy/internal/scoring"
)

// countingLedger records every commit and can fail saves on demand.
type countingLedger struct {
	mu       sync.Mutex
	inner    *progression.Ledger
	commits  []scoring.Result
	failNext error
	// failPlain fails the next commit without a resavable snapshot, the
	// way a load failure does.
	failPlain error
}

func newCountingLedger() *countingLedger {
	return &countingLedger{inner: progression.NewLedger(progression.NewMemoryRepository())}
}

func (l *countingLedger) Commit(ctx context.Context, userID string, r scoring.Result) (progression.Outcome, error) {
	l.mu.Lock()
	l.commits = append(l.commits, r)
	fail, plain := l.failNext, l.failPlain
	l.failNext, l.failPlain = nil, nil
	l.mu.Unlock()

	if plain != nil {
		return progression.Outcome{}, fmt.Errorf("load stats for %s: %w", userID, plain)
	}
	if fail != nil {
		out := progression.Commit(progression.NewStats(), r, time.Now())
		return progression.Outcome{}, &progression.SaveError{UserID: userID, Outcome: out, Err: fail}
	}
	return l.inner.Commit(ctx, userID, r)
}

func (l *countingLedger) Resave(ctx context.Context, se *progression.SaveError) (progression.Outcome, error) {
	return l.inner.Resave(ctx, se)
}

func (l *countingLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.commits)
}

// testBank has perTier questions per tier in science and history. The
// correct answer is always choice 0.
func testBank(t *testing.T, perTier int) *questionbank.Memory {
	t.Helper()
	var qs []questionbank.Question
	for _, cat := range []string{"science", "history"} {
		for _, tier := range difficulty.AllTiers() {
			for i := 0; i < perTier; i++ {
				qs = append(qs, questionbank.Question{
					ID:         fmt.Sprintf("%s-%s-%d", cat, tier, i),
					CategoryID: cat,
					Tier:       tier,
					Prompt:     fmt.Sprintf("%s %s question %d", cat, tier, i),
					Choices:    []string{"right", "wrong", "also wrong"},
					Answer:     0,
				})
			}
		}
	}
	bank, err := questionbank.NewMemory(category.Default(), qs)
	require.NoError(t, err)
	return bank
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
}

func firstPick(int) int { return 0 }

func newTestMachine(t *testing.T, ledger Ledger, opts ...Option) *Machine {
	t.Helper()
	base := []Option{WithPicker(firstPick), WithLength(5)}
	return NewMachine("alice", testBank(t, 6), ledger, append(base, opts...)...)
}

func answer(t *testing.T, m *Machine, correct bool) Feedback {
	t.Helper()
	choice := 1
	if correct {
		choice = 0
	}
	fb, err := m.Submit(context.Background(), choice, time.Second)
	require.NoError(t, err)
	return fb
}

func TestStart_UnknownCategory(t *testing.T) {
	ledger := newCountingLedger()
	m := newTestMachine(t, ledger)

	_, err := m.Start(context.Background(), "Unknown")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 0, ledger.count())
}

func TestStart_FirstQuestionAtMedium(t *testing.T) {
	m := newTestMachine(t, nil)

	v, err := m.Start(context.Background(), "science")
	require.NoError(t, err)
	assert.Equal(t, StateInProgress, v.State)
	require.NotNil(t, v.Question)
	assert.Equal(t, difficulty.TierMedium, v.Question.Tier)
	assert.Equal(t, 1, v.Number)
	assert.Equal(t, 5, v.Length)
	assert.NotEmpty(t, v.SessionID)
}

func TestStart_OnlyFromIdle(t *testing.T) {
	m := newTestMachine(t, nil)
	_, err := m.Start(context.Background(), "science")
	require.NoError(t, err)

	_, err = m.Start(context.Background(), "history")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, "science", m.View().Category.ID)
}

func TestStart_NoQuestions(t *testing.T) {
	m := newTestMachine(t, nil)
	_, err := m.Start(context.Background(), "art")
	assert.ErrorIs(t, err, questionbank.ErrNoQuestionsAvailable)
	assert.Equal(t, StateIdle, m.State())
}

func TestSubmit_FullSessionCommitsOnce(t *testing.T) {
	ledger := newCountingLedger()
	m := newTestMachine(t, ledger)
	_, err := m.Start(context.Background(), "science")
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		fb := answer(t, m, true)
		assert.False(t, fb.Finished)
	}
	assert.Equal(t, 0, ledger.count(), "nothing committed before the end")

	fb := answer(t, m, true)
	require.True(t, fb.Finished)
	require.NotNil(t, fb.Result)
	require.NotNil(t, fb.Outcome)
	assert.Equal(t, 100, fb.Result.XPAwarded)
	assert.Equal(t, 5, fb.Result.BestStreak)
	assert.Equal(t, 100, fb.Outcome.Stats.TotalXP)
	assert.Equal(t, StateFinished, m.State())
	assert.Equal(t, 1, ledger.count())

	// Terminal: further answers fail and nothing more is committed.
	_, err = m.Submit(context.Background(), 0, time.Second)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = m.Expire(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 1, ledger.count())

	// Views can be read any number of times.
	v1, v2 := m.View(), m.View()
	assert.Equal(t, v1, v2)
	assert.Nil(t, v1.Question)
	assert.Equal(t, fb.Result.SessionID, v1.SessionID)
}

func TestSubmit_TierChangesOneStep(t *testing.T) {
	m := newTestMachine(t, nil, WithLength(12))
	_, err := m.Start(context.Background(), "science")
	require.NoError(t, err)

	pattern := []bool{true, true, true, true, false, false, false, true, true, true, false}
	want := []difficulty.Tier{
		difficulty.TierMedium, difficulty.TierMedium, difficulty.TierHard, difficulty.TierHard,
		difficulty.TierMedium, difficulty.TierEasy, difficulty.TierEasy,
		difficulty.TierEasy, difficulty.TierEasy, difficulty.TierMedium,
		difficulty.TierEasy,
	}
	prev := difficulty.TierMedium
	for i, correct := range pattern {
		fb := answer(t, m, correct)
		assert.Equal(t, want[i], fb.Tier, "answer %d", i)
		assert.Equal(t, prev, fb.PrevTier, "answer %d", i)
		step := int(fb.Tier) - int(fb.PrevTier)
		assert.True(t, step >= -1 && step <= 1, "answer %d jumped %d tiers", i, step)

		v := m.View()
		require.NotNil(t, v.Question)
		assert.Equal(t, fb.Tier, v.Question.Tier, "next question drawn at new tier")
		prev = fb.Tier
	}
}

func TestSubmit_StreakTracking(t *testing.T) {
	m := newTestMachine(t, nil, WithLength(6))
	_, err := m.Start(context.Background(), "science")
	require.NoError(t, err)

	answer(t, m, true)
	answer(t, m, true)
	fb := answer(t, m, false)
	assert.Equal(t, 0, fb.Streak)
	assert.False(t, fb.Correct)
	assert.Equal(t, 0, fb.CorrectChoice)
	answer(t, m, true)

	v := m.View()
	assert.Equal(t, 1, v.Streak)
	assert.Equal(t, 2, v.BestStreak)
	assert.Equal(t, 3, v.Correct)
	assert.Equal(t, 4, v.Answered)
}

func TestSubmit_CountsMatchRecords(t *testing.T) {
	m := newTestMachine(t, nil, WithLength(7))
	_, err := m.Start(context.Background(), "history")
	require.NoError(t, err)

	var fb Feedback
	for _, correct := range []bool{true, false, true, true, false, false, true} {
		fb = answer(t, m, correct)
	}
	require.True(t, fb.Finished)
	r := fb.Result
	assert.Equal(t, 7, r.TotalCount)
	assert.Equal(t, 4, r.CorrectCount)
	assert.Equal(t, r.TotalCount, r.CorrectCount+r.IncorrectCount())
	assert.Equal(t, "history", r.Category)
}

func TestSubmit_ValidationDoesNotMutate(t *testing.T) {
	m := newTestMachine(t, nil)
	_, err := m.Start(context.Background(), "science")
	require.NoError(t, err)
	before := m.View()

	for _, choice := range []int{-1, 3, 99} {
		_, err := m.Submit(context.Background(), choice, time.Second)
		assert.ErrorIs(t, err, ErrValidation, "choice %d", choice)
	}
	_, err = m.Submit(context.Background(), 0, -time.Second)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, before, m.View())
}

func TestSubmit_BeforeStart(t *testing.T) {
	m := newTestMachine(t, nil)
	_, err := m.Submit(context.Background(), 0, time.Second)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSubmit_PrefersUnaskedQuestions(t *testing.T) {
	m := NewMachine("alice", testBank(t, 3), nil, WithPicker(firstPick), WithLength(6))
	v, err := m.Start(context.Background(), "science")
	require.NoError(t, err)

	// Wrong answers drive the tier down to Easy and keep it there.
	seen := map[string]int{v.Question.ID: 1}
	for i := 0; i < 4; i++ {
		answer(t, m, false)
		if v := m.View(); v.Question != nil {
			seen[v.Question.ID]++
		}
	}
	// Medium once, then four Easy draws over three Easy questions.
	assert.Equal(t, 1, seen["science-medium-0"])
	assert.Equal(t, 1, seen["science-easy-1"])
	assert.Equal(t, 1, seen["science-easy-2"])
	assert.Equal(t, 2, seen["science-easy-0"], "repeats only after the tier is exhausted")
}

func TestSubmit_NoQuestionsMidSession(t *testing.T) {
	// Only Medium has content.
	bank, err := questionbank.NewMemory(category.Default(), []questionbank.Question{
		{ID: "m1", CategoryID: "science", Tier: difficulty.TierMedium, Prompt: "p1", Choices: []string{"a", "b"}, Answer: 0},
		{ID: "m2", CategoryID: "science", Tier: difficulty.TierMedium, Prompt: "p2", Choices: []string{"a", "b"}, Answer: 0},
	})
	require.NoError(t, err)
	ledger := newCountingLedger()
	m := NewMachine("alice", bank, ledger, WithPicker(firstPick))

	_, err = m.Start(context.Background(), "science")
	require.NoError(t, err)

	// A miss moves to Easy, which is empty.
	_, err = m.Submit(context.Background(), 1, time.Second)
	assert.ErrorIs(t, err, questionbank.ErrNoQuestionsAvailable)
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 0, ledger.count())
}

func TestAbandon_DoesNotCommit(t *testing.T) {
	ledger := newCountingLedger()
	m := newTestMachine(t, ledger)

	assert.ErrorIs(t, m.Abandon(), ErrInvalidState)

	_, err := m.Start(context.Background(), "science")
	require.NoError(t, err)
	answer(t, m, true)
	answer(t, m, true)

	require.NoError(t, m.Abandon())
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 0, ledger.count())

	// A fresh session can start right away.
	v, err := m.Start(context.Background(), "history")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Answered)
}

func TestReset(t *testing.T) {
	m := newTestMachine(t, newCountingLedger(), WithLength(1))
	require.NoError(t, m.Reset(), "idle reset is a no-op")

	_, err := m.Start(context.Background(), "science")
	require.NoError(t, err)
	assert.ErrorIs(t, m.Reset(), ErrInvalidState)

	answer(t, m, true)
	require.Equal(t, StateFinished, m.State())
	require.NoError(t, m.Reset())
	assert.Equal(t, StateIdle, m.State())
	assert.Empty(t, m.View().SessionID)
}

func TestExpire_UsesSameCommitPath(t *testing.T) {
	clock := newClock()
	ledger := newCountingLedger()
	m := newTestMachine(t, ledger, WithClock(clock.Now), WithTimeLimit(time.Minute), WithLength(10))

	v, err := m.Start(context.Background(), "science")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, v.Remaining)

	answer(t, m, true)
	answer(t, m, false)
	clock.Advance(30 * time.Second)
	assert.Equal(t, 30*time.Second, m.View().Remaining)

	_, err = m.Expire(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState, "not expired yet")

	clock.Advance(31 * time.Second)
	fb, err := m.Expire(context.Background())
	require.NoError(t, err)
	assert.True(t, fb.Finished)
	assert.True(t, fb.TimedOut)
	require.NotNil(t, fb.Result)
	assert.Equal(t, 2, fb.Result.TotalCount)
	assert.Equal(t, 1, fb.Result.CorrectCount)
	assert.Equal(t, 61*time.Second, fb.Result.Elapsed)
	assert.Equal(t, 1, ledger.count())

	_, err = m.Expire(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 1, ledger.count())
}

func TestSubmit_AfterDeadlineFinishesWithoutApplying(t *testing.T) {
	clock := newClock()
	ledger := newCountingLedger()
	m := newTestMachine(t, ledger, WithClock(clock.Now), WithTimeLimit(time.Minute))

	_, err := m.Start(context.Background(), "science")
	require.NoError(t, err)
	answer(t, m, true)

	clock.Advance(2 * time.Minute)
	fb, err := m.Submit(context.Background(), 0, time.Second)
	require.NoError(t, err)
	assert.True(t, fb.TimedOut)
	assert.Equal(t, 1, fb.Result.TotalCount)
	assert.Equal(t, 1, ledger.count())
}

func TestTimeout_UnansweredSessionIsDiscarded(t *testing.T) {
	tests := []struct {
		name    string
		timeout func(m *Machine) (Feedback, error)
	}{
		{"expire", func(m *Machine) (Feedback, error) { return m.Expire(context.Background()) }},
		{"late submit", func(m *Machine) (Feedback, error) { return m.Submit(context.Background(), 0, time.Second) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newClock()
			ledger := newCountingLedger()
			m := newTestMachine(t, ledger, WithClock(clock.Now), WithTimeLimit(time.Minute))

			_, err := m.Start(context.Background(), "science")
			require.NoError(t, err)
			clock.Advance(2 * time.Minute)

			fb, err := tt.timeout(m)
			require.NoError(t, err)
			assert.True(t, fb.TimedOut)
			assert.True(t, fb.Discarded)
			assert.Nil(t, fb.Result)
			assert.Equal(t, StateIdle, m.State())
			assert.Zero(t, ledger.count())

			stats, err := ledger.inner.Stats(context.Background(), "alice")
			require.NoError(t, err)
			assert.Zero(t, stats.TotalQuizzes)
		})
	}
}

func TestRetrySave_AfterCommitFailedBeforeSnapshot(t *testing.T) {
	ledger := newCountingLedger()
	ledger.failPlain = errors.New("database is locked")
	m := newTestMachine(t, ledger, WithLength(1))

	_, err := m.Start(context.Background(), "science")
	require.NoError(t, err)

	fb, err := m.Submit(context.Background(), 0, time.Second)
	require.Error(t, err)
	var se *progression.SaveError
	assert.False(t, errors.As(err, &se))
	assert.True(t, fb.Finished)
	assert.True(t, m.View().SaveFailed)

	out, err := m.RetrySave(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Stats.TotalQuizzes)
	assert.Equal(t, fb.Result.XPAwarded, out.Stats.TotalXP)
	assert.False(t, m.View().SaveFailed)
	assert.Equal(t, 2, ledger.count(), "the stored result is committed again")

	_, err = m.RetrySave(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRetrySave(t *testing.T) {
	ledger := newCountingLedger()
	ledger.failNext = errors.New("disk full")
	m := newTestMachine(t, ledger, WithLength(1))

	_, err := m.Start(context.Background(), "science")
	require.NoError(t, err)

	fb, err := m.Submit(context.Background(), 0, time.Second)
	require.Error(t, err)
	var se *progression.SaveError
	assert.ErrorAs(t, err, &se)
	assert.True(t, fb.Finished)
	require.NotNil(t, fb.Result)
	assert.Nil(t, fb.Outcome)
	assert.True(t, m.View().SaveFailed)
	assert.Equal(t, 1, ledger.count())

	out, err := m.RetrySave(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Stats.TotalQuizzes)
	assert.False(t, m.View().SaveFailed)
	require.NotNil(t, m.View().Outcome)

	_, err = m.RetrySave(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 1, ledger.count(), "retry does not re-run the session commit")
}

func TestMachine_ConcurrentSubmitsAreSerialized(t *testing.T) {
	ledger := newCountingLedger()
	m := newTestMachine(t, ledger, WithLength(20))
	_, err := m.Start(context.Background(), "science")
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	okCount := 0
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Submit(context.Background(), 0, time.Millisecond); err == nil {
				mu.Lock()
				okCount++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrInvalidState)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, okCount)
	assert.Equal(t, StateFinished, m.State())
	assert.Equal(t, 1, ledger.count())
}

func TestPool_MachinePerUser(t *testing.T) {
	bank := testBank(t, 4)
	ledger := progression.NewLedger(progression.NewMemoryRepository())
	pool := NewPool(func(userID string) *Machine {
		return NewMachine(userID, bank, ledger, WithLength(3), WithPicker(firstPick))
	})

	assert.Same(t, pool.For("alice"), pool.For("alice"))
	assert.NotSame(t, pool.For("alice"), pool.For("bob"))

	var wg sync.WaitGroup
	for _, user := range []string{"u1", "u2", "u3", "u4"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := pool.For(user)
			_, err := m.Start(context.Background(), "history")
			assert.NoError(t, err)
			for i := 0; i < 3; i++ {
				_, err := m.Submit(context.Background(), 0, time.Second)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	for _, user := range []string{"u1", "u2", "u3", "u4"} {
		stats, err := ledger.Stats(context.Background(), user)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalQuizzes, user)
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "in_progress", StateInProgress.String())
	assert.Equal(t, "finished", StateFinished.String())
	assert.Equal(t, "unknown", State(9).String())
}
