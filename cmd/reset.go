package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase a player's progress and history",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Fprintf(cmd.OutOrStdout(), "Erase all progress for %q? [y/N] ", e.cfg.UserID)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		ctx := cmd.Context()
		if err := e.ledger.Reset(ctx, e.cfg.UserID); err != nil {
			return err
		}
		n, err := e.store.Results().DeleteUser(ctx, e.cfg.UserID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Progress reset for %s (%d results removed).\n", e.cfg.UserID, n)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
