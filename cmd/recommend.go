package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggest what to play next",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr, false)
		if err != nil {
			return err
		}
		defer e.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		if !cmd.Flags().Changed("limit") {
			limit = e.cfg.Recommendations
		}

		stats, err := e.ledger.Stats(cmd.Context(), e.cfg.UserID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		n := 0
		for r := range recommend.RecommendN(stats, e.catalog, limit) {
			n++
			fmt.Fprintf(out, "%d. %s %s (%s)\n", n, r.Topic.Icon, r.Topic.Title, r.Category.Name)
			fmt.Fprintf(out, "   %s\n", r.Topic.Description)
			fmt.Fprintf(out, "   %s · %s · %s\n", r.Reason.Label(), r.Topic.Difficulty.Label(), r.Topic.EstimatedLabel())
		}
		if n == 0 {
			fmt.Fprintln(out, "No recommendations right now.")
		}
		return nil
	},
}

func init() {
	recommendCmd.Flags().IntP("limit", "n", 2, "Number of suggestions (default from QUIZZY_RECOMMENDATIONS)")
}
