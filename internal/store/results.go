package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizzy/internal/progression"
)

// ResultRecord is one journaled session result.
type ResultRecord struct {
	ID           int64
	SessionID    string
	UserID       string
	CategoryID   string
	CorrectCount int
	TotalCount   int
	BestStreak   int
	Elapsed      time.Duration
	XPAwarded    int
	LeveledUp    bool
	Events       []progression.Event
	CreatedAt    time.Time
}

// ResultRepo journals committed session results. It implements
// progression.Journal.
type ResultRepo struct {
	db *sql.DB
}

var _ progression.Journal = (*ResultRepo)(nil)

// RecordResult appends the outcome of a commit.
func (r *ResultRepo) RecordResult(ctx context.Context, userID string, outcome progression.Outcome) error {
	events, err := json.Marshal(outcome.Events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	res := outcome.Result
	createdAt := outcome.CommittedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query, args := builder().
		Insert(tableSessionResults).
		Columns(
			"session_id", "user_id", "category_id",
			"correct_count", "total_count", "best_streak",
			"elapsed_ms", "xp_awarded", "leveled_up",
			"events", "created_at",
		).
		Values(
			res.SessionID, userID, res.Category,
			res.CorrectCount, res.TotalCount, res.BestStreak,
			res.Elapsed.Milliseconds(), res.XPAwarded, outcome.LeveledUp,
			string(events), createdAt.UTC(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session result: %w", err)
	}
	return nil
}

// Recent returns the user's latest results, newest first. limit <= 0
// returns everything.
func (r *ResultRepo) Recent(ctx context.Context, userID string, limit int) ([]ResultRecord, error) {
	sel := builder().
		Select(
			"id", "session_id", "user_id", "category_id",
			"correct_count", "total_count", "best_streak",
			"elapsed_ms", "xp_awarded", "leveled_up",
			"events", "created_at",
		).
		From(builder().Table(tableSessionResults)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var (
			rec       ResultRecord
			elapsedMs int64
			events    sql.NullString
		)
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.UserID, &rec.CategoryID,
			&rec.CorrectCount, &rec.TotalCount, &rec.BestStreak,
			&elapsedMs, &rec.XPAwarded, &rec.LeveledUp,
			&events, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan session result: %w", err)
		}
		rec.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		if events.Valid && events.String != "" {
			if err := json.Unmarshal([]byte(events.String), &rec.Events); err != nil {
				return nil, fmt.Errorf("decode events for result %d: %w", rec.ID, err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteUser removes every journaled result of a user.
func (r *ResultRepo) DeleteUser(ctx context.Context, userID string) (int64, error) {
	query, args := builder().
		Delete(tableSessionResults).
		Where(entsql.EQ("user_id", userID)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete session results: %w", err)
	}
	return res.RowsAffected()
}
