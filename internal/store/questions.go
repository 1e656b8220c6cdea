package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/difficulty"
	"github.com/abhisek/quizzy/internal/questionbank"
)

// QuestionRepo is a question bank backed by the questions table. It
// implements questionbank.Bank; catalog lookups go to the given catalog.
type QuestionRepo struct {
	db      *sql.DB
	catalog *category.Catalog
}

var _ questionbank.Bank = (*QuestionRepo)(nil)

// Questions returns the SQLite question bank.
func (s *Store) Questions(catalog *category.Catalog) *QuestionRepo {
	return &QuestionRepo{db: s.db, catalog: catalog}
}

// QuestionsFor implements questionbank.Bank.
func (r *QuestionRepo) QuestionsFor(ctx context.Context, categoryID string, tier difficulty.Tier) ([]questionbank.Question, error) {
	pred := entsql.EQ("tier", tier.String())
	if categoryID != category.AllID {
		pred = entsql.And(pred, entsql.EQ("category_id", categoryID))
	}
	query, args := builder().
		Select("question_id", "category_id", "tier", "prompt", "choices", "answer_index", "explanation", "source").
		From(builder().Table(tableQuestions)).
		Where(pred).
		OrderBy("id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []questionbank.Question
	for rows.Next() {
		var (
			q       questionbank.Question
			tierStr string
			choices []byte
		)
		if err := rows.Scan(&q.ID, &q.CategoryID, &tierStr, &q.Prompt, &choices, &q.Answer, &q.Explanation, &q.Source); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if q.Tier, err = difficulty.Parse(tierStr); err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}
		if err := json.Unmarshal(choices, &q.Choices); err != nil {
			return nil, fmt.Errorf("question %s choices: %w", q.ID, err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s at %s", questionbank.ErrNoQuestionsAvailable, categoryID, tier)
	}
	return out, nil
}

// Category implements questionbank.Bank.
func (r *QuestionRepo) Category(id string) (category.Category, bool) {
	return r.catalog.Get(id)
}

// Categories implements questionbank.Bank.
func (r *QuestionRepo) Categories() []category.Category {
	return r.catalog.All()
}

// Save validates and upserts questions by id in one transaction. It
// returns the number written.
func (r *QuestionRepo) Save(ctx context.Context, questions []questionbank.Question) (int, error) {
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return 0, err
		}
		if q.CategoryID == category.AllID {
			return 0, fmt.Errorf("%w %s: cannot file under %q", questionbank.ErrInvalidQuestion, q.ID, category.AllID)
		}
		if _, ok := r.catalog.Get(q.CategoryID); !ok {
			return 0, fmt.Errorf("%w %s: unknown category %q", questionbank.ErrInvalidQuestion, q.ID, q.CategoryID)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, q := range questions {
		choices, err := json.Marshal(q.Choices)
		if err != nil {
			return 0, fmt.Errorf("encode choices for %s: %w", q.ID, err)
		}
		query, args := builder().
			Insert(tableQuestions).
			Columns("question_id", "category_id", "tier", "prompt", "choices", "answer_index", "explanation", "source", "created_at").
			Values(q.ID, q.CategoryID, q.Tier.String(), q.Prompt, string(choices), q.Answer, q.Explanation, q.Source, now).
			OnConflict(
				entsql.ConflictColumns("question_id"),
				entsql.ResolveWithNewValues(),
			).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("save question %s: %w", q.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(questions), nil
}

// QuestionCount is the number of stored questions in one category and tier.
type QuestionCount struct {
	CategoryID string
	Tier       difficulty.Tier
	Count      int
}

// Counts returns stored question counts grouped by category and tier.
func (r *QuestionRepo) Counts(ctx context.Context) ([]QuestionCount, error) {
	query, args := builder().
		Select("category_id", "tier", entsql.As(entsql.Count("*"), "n")).
		From(builder().Table(tableQuestions)).
		GroupBy("category_id", "tier").
		OrderBy("category_id", "tier").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	defer rows.Close()

	var out []QuestionCount
	for rows.Next() {
		var (
			c       QuestionCount
			tierStr string
		)
		if err := rows.Scan(&c.CategoryID, &tierStr, &c.Count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		if c.Tier, err = difficulty.Parse(tierStr); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteSource removes every stored question from source and returns how
// many were removed.
func (r *QuestionRepo) DeleteSource(ctx context.Context, source string) (int64, error) {
	query, args := builder().
		Delete(tableQuestions).
		Where(entsql.EQ("source", source)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete questions: %w", err)
	}
	return res.RowsAffected()
}
