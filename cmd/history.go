package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr, false)
		if err != nil {
			return err
		}
		defer e.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		results, err := e.store.Results().Recent(cmd.Context(), e.cfg.UserID, limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No quizzes played yet.")
			return nil
		}

		fmt.Fprintf(out, "%-16s  %-16s  %7s  %6s  %6s  %7s  %s\n",
			"When", "Category", "Score", "Streak", "XP", "Time", "Events")
		fmt.Fprintln(out, strings.Repeat("─", 86))
		for _, r := range results {
			events := make([]string, 0, len(r.Events))
			for _, ev := range r.Events {
				events = append(events, ev.Message())
			}
			secs := int(r.Elapsed.Seconds())
			fmt.Fprintf(out, "%-16s  %-16s  %3d/%-3d  %6d  %6d  %4d:%02d  %s\n",
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				truncate(e.catalog.Name(r.CategoryID), 16),
				r.CorrectCount, r.TotalCount,
				r.BestStreak,
				r.XPAwarded,
				secs/60, secs%60,
				strings.Join(events, "; "),
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
}
