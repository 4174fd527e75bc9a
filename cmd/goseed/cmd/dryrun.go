package cmd

import (
	"context"
	"fmt"

	"github.com/dbsmedya/goseed/internal/config"
	"github.com/dbsmedya/goseed/internal/database"
	"github.com/dbsmedya/goseed/internal/logger"
	"github.com/dbsmedya/goseed/internal/runner"
	"github.com/spf13/cobra"
)

var dryrunSet string

var dryrunCmd = &cobra.Command{
	Use:   "dry-run",
	Short: "Simulate seeding without writing",
	Long: `Dry-run resolves a seed set and reports what a seed run would do
without writing to the database.

The dry-run shows:
  - The records that would be inserted, in insert order
  - How many documents the target collection already holds
  - Whether any seeded id already exists (the insert would fail)
  - Configuration summary

Example:
  goseed dry-run --config seeder.yaml --set products`,
	RunE: runDryrun,
}

func init() {
	dryrunCmd.Flags().StringVarP(&dryrunSet, "set", "s", config.DefaultSeedSet,
		"Seed set name from configuration file")

	rootCmd.AddCommand(dryrunCmd)
}

func runDryrun(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	// Load configuration
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize logger
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	r, err := runner.NewRunner(cfg, dryrunSet, log)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	if err := r.Initialize(); err != nil {
		return fmt.Errorf("runner initialization failed: %w", err)
	}

	ctx := commandContext(cmd)

	dbManager := database.NewManager(&cfg.Mongo)
	if err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer dbManager.Close(context.Background())

	store, err := dbManager.Store()
	if err != nil {
		return err
	}

	// Run estimation
	result, err := r.Estimate(ctx, store)
	if err != nil {
		return fmt.Errorf("estimation failed: %w", err)
	}

	// Display execution plan
	runner.DisplayExecutionPlan(cmd.OutOrStdout(), result)

	return nil
}
