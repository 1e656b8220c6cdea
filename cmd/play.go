package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/app"
	"github.com/abhisek/quizzy/internal/screen"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the quiz game",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

// runPlay launches the TUI. Logs go to quizzy.log next to the database so
// they do not tear the screen.
func runPlay(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logPath := filepath.Join(filepath.Dir(cfg.DBPath), "quizzy.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	e, err := openEnv(cmd, logFile, true)
	if err != nil {
		return err
	}
	defer e.Close()

	svc := &screen.Services{
		UserID:          e.cfg.UserID,
		Machine:         e.machine(),
		Ledger:          e.ledger,
		Catalog:         e.catalog,
		History:         e.store.Results(),
		Recommendations: e.cfg.Recommendations,
	}
	if e.generator != nil {
		svc.Prepare = e.generator.Warm
	}
	return app.Run(cmd.Context(), svc)
}
