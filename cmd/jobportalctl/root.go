package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-job-portal-backend/config"
	"go-job-portal-backend/pkg/logger"

	"github.com/spf13/cobra"
)

type cfgKey struct{}

var rootCmd = &cobra.Command{
	Use:          "jobportalctl",
	Short:        "Maintenance commands for the job portal backend",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == hashPasswordCmd.Name() {
			return nil
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger.Init(cfg.LogLevel)
		cmd.SetContext(context.WithValue(cmd.Context(), cfgKey{}, cfg))
		return nil
	},
}

func configFrom(cmd *cobra.Command) *config.Config {
	cfg, _ := cmd.Context().Value(cfgKey{}).(*config.Config)
	return cfg
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(migrateCmd, seedCmd, reapCmd, hashPasswordCmd)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
