package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/config"
	"github.com/abhisek/quizzy/internal/llm"
	"github.com/abhisek/quizzy/internal/progression"
	"github.com/abhisek/quizzy/internal/questionbank"
	"github.com/abhisek/quizzy/internal/questiongen"
	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/store"
)

// env is everything a command needs, built from config and flags.
type env struct {
	cfg     *config.Config
	store   *store.Store
	catalog *category.Catalog
	ledger  *progression.Ledger

	questions *store.QuestionRepo
	bank      questionbank.Bank
	generator *questiongen.Generator

	// machines builds quiz machines on first use, after bank is final.
	machines *quiz.Pool
}

// loadConfig reads config and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		cfg.UserID = u
	}
	return cfg, nil
}

// openEnv opens the store and wires the ledger and question banks. Logs go
// to logOut. When withLLM is set and a provider is configured, questions
// are topped up by the generator.
func openEnv(cmd *cobra.Command, logOut io.Writer, withLLM bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg.SetupLogging(logOut)

	st, err := store.OpenPath(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	catalog := category.Default()
	seed, err := questionbank.Seed(catalog)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load seed questions: %w", err)
	}

	e := &env{
		cfg:       cfg,
		store:     st,
		catalog:   catalog,
		ledger:    progression.NewLedger(st.Stats(), progression.WithJournal(st.Results())),
		questions: st.Questions(catalog),
	}
	e.machines = quiz.NewPool(e.newMachine)
	base := questionbank.NewChain(e.questions, seed)
	e.bank = base

	if withLLM {
		if gen := e.newGenerator(cmd.Context(), base); gen != nil {
			e.generator = gen
			e.bank = gen
		}
	}
	return e, nil
}

// newGenerator returns nil when no provider is configured or it cannot be
// built. The game works from stored questions alone.
func (e *env) newGenerator(ctx context.Context, base questionbank.Bank) *questiongen.Generator {
	llmCfg, ok, err := llm.ConfigFromEnv(os.Getenv)
	if !ok {
		return nil
	}
	if err != nil {
		slog.Warn("LLM provider misconfigured, question generation disabled", "err", err)
		return nil
	}
	provider, err := llm.NewProvider(ctx, llmCfg, e.store.LLMRequests())
	if err != nil {
		slog.Warn("LLM provider unavailable, question generation disabled", "provider", llmCfg.Provider, "err", err)
		return nil
	}
	slog.Info("question generation enabled", "provider", llmCfg.Provider, "model", provider.ModelID())
	return questiongen.New(base, provider, questiongen.WithSaver(e.questions))
}

// machine returns a quiz machine for the configured user.
func (e *env) machine() *quiz.Machine {
	return e.machines.For(e.cfg.UserID)
}

func (e *env) newMachine(userID string) *quiz.Machine {
	opts := []quiz.Option{quiz.WithLength(e.cfg.SessionLength)}
	if e.cfg.TimeLimit > 0 {
		opts = append(opts, quiz.WithTimeLimit(e.cfg.TimeLimit))
	}
	return quiz.NewMachine(userID, e.bank, e.ledger, opts...)
}

func (e *env) Close() error {
	return e.store.Close()
}
