package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableUserStats      = "user_stats"
	tableSessionResults = "session_results"
	tableQuestions      = "questions"
	tableLLMRequests    = "llm_requests"
)

var (
	userStatsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString, Unique: true},
		{Name: "version", Type: field.TypeInt64},
		{Name: "data", Type: field.TypeJSON},
		{Name: "updated_at", Type: field.TypeTime},
	}
	userStatsTable = &schema.Table{
		Name:       tableUserStats,
		Columns:    userStatsColumns,
		PrimaryKey: []*schema.Column{userStatsColumns[0]},
	}

	sessionResultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "session_id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "category_id", Type: field.TypeString},
		{Name: "correct_count", Type: field.TypeInt},
		{Name: "total_count", Type: field.TypeInt},
		{Name: "best_streak", Type: field.TypeInt},
		{Name: "elapsed_ms", Type: field.TypeInt64},
		{Name: "xp_awarded", Type: field.TypeInt},
		{Name: "leveled_up", Type: field.TypeBool, Default: false},
		{Name: "events", Type: field.TypeJSON, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	sessionResultsTable = &schema.Table{
		Name:       tableSessionResults,
		Columns:    sessionResultsColumns,
		PrimaryKey: []*schema.Column{sessionResultsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "sessionresult_user_id_created_at",
				Columns: []*schema.Column{sessionResultsColumns[2], sessionResultsColumns[11]},
			},
		},
	}

	questionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "question_id", Type: field.TypeString, Unique: true},
		{Name: "category_id", Type: field.TypeString},
		{Name: "tier", Type: field.TypeString},
		{Name: "prompt", Type: field.TypeString, Size: 2147483647},
		{Name: "choices", Type: field.TypeJSON},
		{Name: "answer_index", Type: field.TypeInt},
		{Name: "explanation", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "source", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	questionsTable = &schema.Table{
		Name:       tableQuestions,
		Columns:    questionsColumns,
		PrimaryKey: []*schema.Column{questionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "question_category_id_tier",
				Columns: []*schema.Column{questionsColumns[2], questionsColumns[3]},
			},
		},
	}

	llmRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	llmRequestsTable = &schema.Table{
		Name:       tableLLMRequests,
		Columns:    llmRequestsColumns,
		PrimaryKey: []*schema.Column{llmRequestsColumns[0]},
	}

	tables = []*schema.Table{
		userStatsTable,
		sessionResultsTable,
		questionsTable,
		llmRequestsTable,
	}
)

// migrate creates or updates every table.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
