package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/progression"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show level, totals, category accuracy and badges",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr, false)
		if err != nil {
			return err
		}
		defer e.Close()

		stats, err := e.ledger.Stats(cmd.Context(), e.cfg.UserID)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}

		out := cmd.OutOrStdout()
		info := progression.LevelProgress(stats.TotalXP)
		fmt.Fprintf(out, "Player:          %s\n", e.cfg.UserID)
		fmt.Fprintf(out, "Level:           %d (%s)\n", info.Level, stats.Rank())
		fmt.Fprintf(out, "XP:              %d (%d to level %d)\n", stats.TotalXP, info.Remaining(), info.Level+1)
		fmt.Fprintf(out, "Quizzes:         %d\n", stats.TotalQuizzes)
		fmt.Fprintf(out, "Answered:        %d (%d correct)\n", stats.TotalQuestions, stats.TotalCorrect)
		fmt.Fprintf(out, "Average score:   %d%%\n", stats.AverageScorePercent())
		fmt.Fprintf(out, "Longest streak:  %d\n", stats.LongestStreak)
		if stats.TopCategory != "" {
			fmt.Fprintf(out, "Strongest:       %s\n", e.catalog.Name(stats.TopCategory))
			fmt.Fprintf(out, "Weakest:         %s\n", e.catalog.Name(stats.WeakestCategory))
		}

		if len(stats.CategoryOrder) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%-18s  %8s  %6s\n", "Category", "Correct", "Acc")
			fmt.Fprintln(out, strings.Repeat("─", 36))
			for _, id := range stats.CategoryOrder {
				t := stats.PerCategory[id]
				fmt.Fprintf(out, "%-18s  %4d/%-3d  %5.0f%%\n", truncate(e.catalog.Name(id), 18), t.Correct, t.Total, 100*t.Accuracy())
			}
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Badges")
		fmt.Fprintln(out, strings.Repeat("─", 36))
		for _, b := range stats.Badges {
			mark := "  "
			when := ""
			if b.Earned {
				mark = "✓ "
				when = "  " + b.EarnedAt.Local().Format("2006-01-02")
			}
			fmt.Fprintf(out, "%s%s %-14s %s%s\n", mark, b.Icon, b.Name, b.Description, when)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print the raw stats record as JSON")
}
