package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sdshc/costshare/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "costshare",
	Short: "Conservation cost-share program statistics",
	Long: "Loads the cost-share contract and funding tables, normalizes them, and reports " +
		"program totals, practice, year and impact rollups, budget utilization and farm locations.",
	SilenceUsage: true,
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
