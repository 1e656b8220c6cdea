package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/progression"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List players with saved progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		users, err := e.store.Stats().Users(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(users) == 0 {
			fmt.Fprintln(out, "No players yet.")
			return nil
		}

		fmt.Fprintf(out, "%-16s  %5s  %-16s  %7s  %7s\n", "Player", "Level", "Rank", "XP", "Quizzes")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, u := range users {
			stats, err := e.ledger.Stats(ctx, u)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-16s  %5d  %-16s  %7d  %7d\n",
				truncate(u, 16), progression.LevelFor(stats.TotalXP), stats.Rank(), stats.TotalXP, stats.TotalQuizzes)
		}
		return nil
	},
}
