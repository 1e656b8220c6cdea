package progression

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/quizzy/internal/scoring"
)

// ErrVersionConflict is returned by a Repository when the stored snapshot
// moved past the expected version.
var ErrVersionConflict = errors.New("stats version conflict")

// maxCommitAttempts bounds reload-and-reapply cycles on version conflicts.
const maxCommitAttempts = 3

// Snapshot is a stored stats record and its version. Version 0 means the
// user has no record yet.
type Snapshot struct {
	Stats   UserStats
	Version int64
}

// Repository persists one stats snapshot per user.
type Repository interface {
	// LoadStats returns the current snapshot, or NewStats at version 0 for
	// an unknown user.
	LoadStats(ctx context.Context, userID string) (Snapshot, error)

	// SaveStats stores stats if the current version equals expectedVersion
	// and fails with ErrVersionConflict otherwise.
	SaveStats(ctx context.Context, userID string, stats UserStats, expectedVersion int64) error
}

// Journal records committed results. Failures are logged, not returned.
type Journal interface {
	RecordResult(ctx context.Context, userID string, outcome Outcome) error
}

// SaveError reports a commit whose snapshot could not be stored. Outcome
// holds the computed snapshot so it can be retried with Ledger.Resave.
type SaveError struct {
	UserID          string
	Outcome         Outcome
	ExpectedVersion int64
	Err             error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save stats for %s: %v", e.UserID, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// Ledger applies session results to per-user stats. Commits for the same
// user are serialized; different users proceed in parallel.
type Ledger struct {
	repo    Repository
	journal Journal
	now     func() time.Time

	locks sync.Map // user id -> *sync.Mutex
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithJournal records every committed result.
func WithJournal(j Journal) Option {
	return func(l *Ledger) { l.journal = j }
}

// WithClock overrides time.Now for badge timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger creates a ledger on top of repo.
func NewLedger(repo Repository, opts ...Option) *Ledger {
	l := &Ledger{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) lock(userID string) func() {
	v, _ := l.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Stats returns a read-only copy of the user's current stats.
func (l *Ledger) Stats(ctx context.Context, userID string) (UserStats, error) {
	snap, err := l.repo.LoadStats(ctx, userID)
	if err != nil {
		return UserStats{}, fmt.Errorf("load stats for %s: %w", userID, err)
	}
	stats := snap.Stats.Clone()
	stats.Normalize()
	return stats, nil
}

// Commit applies result to the user's stats and stores the new snapshot.
// A conflicting concurrent writer causes a reload and a fresh apply. Any
// other storage failure yields a *SaveError.
func (l *Ledger) Commit(ctx context.Context, userID string, result scoring.Result) (Outcome, error) {
	unlock := l.lock(userID)
	defer unlock()
	return l.commitLocked(ctx, userID, result)
}

func (l *Ledger) commitLocked(ctx context.Context, userID string, result scoring.Result) (Outcome, error) {
	var lastErr error
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		snap, err := l.repo.LoadStats(ctx, userID)
		if err != nil {
			return Outcome{}, fmt.Errorf("load stats for %s: %w", userID, err)
		}

		outcome := Commit(snap.Stats, result, l.now())
		err = l.repo.SaveStats(ctx, userID, outcome.Stats, snap.Version)
		if err == nil {
			l.record(ctx, userID, outcome)
			return outcome, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return outcome, &SaveError{
				UserID:          userID,
				Outcome:         outcome,
				ExpectedVersion: snap.Version,
				Err:             err,
			}
		}
		slog.Debug("stats version conflict, retrying", "user", userID, "attempt", attempt+1)
		lastErr = err
	}
	return Outcome{}, fmt.Errorf("commit for %s after %d attempts: %w", userID, maxCommitAttempts, lastErr)
}

// Resave retries storing the snapshot carried by a *SaveError. If the
// stored record moved on in the meantime the result is reapplied to it.
func (l *Ledger) Resave(ctx context.Context, se *SaveError) (Outcome, error) {
	unlock := l.lock(se.UserID)
	defer unlock()

	err := l.repo.SaveStats(ctx, se.UserID, se.Outcome.Stats, se.ExpectedVersion)
	switch {
	case err == nil:
		l.record(ctx, se.UserID, se.Outcome)
		return se.Outcome, nil
	case errors.Is(err, ErrVersionConflict):
		return l.commitLocked(ctx, se.UserID, se.Outcome.Result)
	default:
		return se.Outcome, &SaveError{
			UserID:          se.UserID,
			Outcome:         se.Outcome,
			ExpectedVersion: se.ExpectedVersion,
			Err:             err,
		}
	}
}

// Reset replaces the user's stats with an empty record.
func (l *Ledger) Reset(ctx context.Context, userID string) error {
	unlock := l.lock(userID)
	defer unlock()

	snap, err := l.repo.LoadStats(ctx, userID)
	if err != nil {
		return fmt.Errorf("load stats for %s: %w", userID, err)
	}
	if err := l.repo.SaveStats(ctx, userID, NewStats(), snap.Version); err != nil {
		return fmt.Errorf("reset stats for %s: %w", userID, err)
	}
	return nil
}

func (l *Ledger) record(ctx context.Context, userID string, outcome Outcome) {
	if l.journal == nil {
		return
	}
	if err := l.journal.RecordResult(ctx, userID, outcome); err != nil {
		slog.Warn("failed to journal session result", "user", userID, "session", outcome.Result.SessionID, "err", err)
	}
}
