// Package cmd implements the rbac-api CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rbac-admin/rbac-api/internal/infrastructure/config"
	"github.com/rbac-admin/rbac-api/pkg/logger"
)

const serviceName = "rbac-api"

var (
	// Version is set at build time
	Version = "0.1.0"

	// Global flags
	envFile string

	// Loaded by PersistentPreRunE
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rbac-api",
	Short: "Hierarchical role-based access control API",
	Long: `rbac-api serves user and role management behind a priority hierarchy.

Configuration comes from the environment, optionally preloaded from a
dotenv file (see --env-file).`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip configuration for completion and help
		if cmd.Name() == "completion" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(cmd.Context(), envFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log = logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  cfg.LogPretty,
			Service: serviceName,
			Output:  os.Stderr,
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment (ignored when missing)")
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
