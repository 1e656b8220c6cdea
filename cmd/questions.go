package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/difficulty"
	"github.com/abhisek/quizzy/internal/questionbank"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Manage the stored question bank",
}

var questionsImportCmd = &cobra.Command{
	Use:   "import <file.yaml>...",
	Short: "Import questions from YAML files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr, false)
		if err != nil {
			return err
		}
		defer e.Close()

		source, _ := cmd.Flags().GetString("source")
		total := 0
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			src := source
			if src == "" {
				src = "import:" + filepath.Base(path)
			}
			qs, err := questionbank.ParseYAML(f, src)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			for _, q := range qs {
				if _, ok := e.catalog.Get(q.CategoryID); !ok {
					return fmt.Errorf("%s: question %s: unknown category %q", path, q.ID, q.CategoryID)
				}
			}
			n, err := e.questions.Save(cmd.Context(), qs)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: imported %d questions\n", path, n)
			total += n
		}
		if len(args) > 1 {
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %d questions\n", total)
		}
		return nil
	},
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show question counts per category and difficulty",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr, false)
		if err != nil {
			return err
		}
		defer e.Close()

		stored, err := e.questions.Counts(cmd.Context())
		if err != nil {
			return err
		}
		seed, err := questionbank.Seed(e.catalog)
		if err != nil {
			return err
		}

		type row = map[difficulty.Tier]int
		counts := make(map[string]row)
		for _, c := range stored {
			if counts[c.CategoryID] == nil {
				counts[c.CategoryID] = make(row)
			}
			counts[c.CategoryID][c.Tier] += c.Count
		}

		out := cmd.OutOrStdout()
		tiers := difficulty.AllTiers()
		header := fmt.Sprintf("%-18s", "Category")
		for _, t := range tiers {
			header += fmt.Sprintf("  %13s", t.Label())
		}
		fmt.Fprintln(out, "Counts are stored/built-in.")
		fmt.Fprintln(out, header)
		fmt.Fprintln(out, strings.Repeat("─", len([]rune(header))))
		for _, cat := range e.catalog.All() {
			if cat.ID == category.AllID {
				continue
			}
			line := fmt.Sprintf("%-18s", truncate(cat.Name, 18))
			seeded := seed.Count(cat.ID)
			for _, t := range tiers {
				line += fmt.Sprintf("  %13s", fmt.Sprintf("%d/%d", counts[cat.ID][t], seeded[t]))
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var questionsDeleteCmd = &cobra.Command{
	Use:   "delete <source>",
	Short: "Delete stored questions by source (e.g. import:trivia.yaml)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr, false)
		if err != nil {
			return err
		}
		defer e.Close()

		n, err := e.questions.DeleteSource(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d questions from %s\n", n, args[0])
		return nil
	},
}

func init() {
	questionsImportCmd.Flags().String("source", "", "Source label stored with the questions (default import:<file name>)")

	questionsCmd.AddCommand(questionsImportCmd)
	questionsCmd.AddCommand(questionsListCmd)
	questionsCmd.AddCommand(questionsDeleteCmd)
}
