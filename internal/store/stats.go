package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizzy/internal/progression"
)

// StatsRepo stores one versioned progression snapshot per user. It
// implements progression.Repository.
type StatsRepo struct {
	db *sql.DB
}

var _ progression.Repository = (*StatsRepo)(nil)

// LoadStats returns the user's snapshot, or empty stats at version 0.
func (r *StatsRepo) LoadStats(ctx context.Context, userID string) (progression.Snapshot, error) {
	query, args := builder().
		Select("version", "data").
		From(builder().Table(tableUserStats)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var (
		version int64
		data    []byte
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&version, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return progression.Snapshot{Stats: progression.NewStats()}, nil
	}
	if err != nil {
		return progression.Snapshot{}, fmt.Errorf("query stats: %w", err)
	}

	var stats progression.UserStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return progression.Snapshot{}, fmt.Errorf("decode stats: %w", err)
	}
	stats.Normalize()
	return progression.Snapshot{Stats: stats, Version: version}, nil
}

// SaveStats writes stats if the stored version still equals
// expectedVersion. Version 0 inserts the first record.
func (r *StatsRepo) SaveStats(ctx context.Context, userID string, stats progression.UserStats, expectedVersion int64) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	now := time.Now().UTC()

	var (
		query string
		args  []any
	)
	if expectedVersion == 0 {
		query, args = builder().
			Insert(tableUserStats).
			Columns("user_id", "version", "data", "updated_at").
			Values(userID, 1, string(data), now).
			OnConflict(entsql.ConflictColumns("user_id"), entsql.DoNothing()).
			Query()
	} else {
		query, args = builder().
			Update(tableUserStats).
			Set("data", string(data)).
			Set("updated_at", now).
			Add("version", 1).
			Where(entsql.And(
				entsql.EQ("user_id", userID),
				entsql.EQ("version", expectedVersion),
			)).
			Query()
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: user %s moved past version %d", progression.ErrVersionConflict, userID, expectedVersion)
	}
	return nil
}

// Users lists every user with stored stats.
func (r *StatsRepo) Users(ctx context.Context) ([]string, error) {
	query, args := builder().
		Select("user_id").
		From(builder().Table(tableUserStats)).
		OrderBy("user_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
