package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arokua/job-hunter/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "job-hunter",
	Short: "Background job scrape-score-notify worker",
	Long:  "Accepts job-search submissions, scrapes job boards, scores results against the caller's profile, and reports outcomes via email digest and callback.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
