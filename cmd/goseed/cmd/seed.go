package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dbsmedya/goseed/internal/config"
	"github.com/dbsmedya/goseed/internal/database"
	"github.com/dbsmedya/goseed/internal/logger"
	"github.com/dbsmedya/goseed/internal/runner"
	"github.com/spf13/cobra"
)

var (
	seedSet        string
	seedDatabase   string
	seedCollection string
	seedSkipVerify bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert a seed set into MongoDB",
	Long: `Seed inserts every record of a seed set into its target collection
in one ordered bulk insert, then verifies the collection.

The seed process follows these steps:
  1. Resolve the set's records (inline, file or built-in fixture)
  2. Validate the records (ids present and unique, fields well-formed)
  3. Connect to MongoDB and insert the records in order
  4. Verify the inserted documents (count or SHA256)

Seeding a collection that already holds one of the ids fails with a
duplicate key error. Records before the conflicting one stay inserted.

Example:
  goseed seed --config seeder.yaml --set products
  goseed seed --uri mongodb://localhost:27017 --database shop`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedSet, "set", "s", config.DefaultSeedSet,
		"Seed set name from configuration file")
	seedCmd.Flags().StringVar(&seedDatabase, "database", "",
		"Override the seed set's target database")
	seedCmd.Flags().StringVar(&seedCollection, "collection", "",
		"Override the seed set's target collection")
	seedCmd.Flags().BoolVar(&seedSkipVerify, "skip-verify", false,
		"Skip verification after insert")

	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	// Load configuration
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	// Retarget the set before validating it
	if err := cfg.ApplySetOverrides(seedSet, seedDatabase, seedCollection); err != nil {
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

	log.Infow("Starting seed operation",
		"set", seedSet,
		"config", configFile,
	)

	// Resolve and validate records before opening a connection
	r, err := runner.NewRunner(cfg, seedSet, log)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	if err := r.Initialize(); err != nil {
		return fmt.Errorf("runner initialization failed: %w", err)
	}

	// Handle graceful shutdown
	ctx, stop := database.SetupSignalHandler(commandContext(cmd), func(sig os.Signal) {
		log.Warnw("Received shutdown signal - aborting insert", "signal", sig.String())
	})
	defer stop()

	dbManager := database.NewManager(&cfg.Mongo)
	if err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer dbManager.Close(context.Background())

	store, err := dbManager.Store()
	if err != nil {
		return err
	}

	result, err := r.Execute(ctx, store)
	if result != nil {
		printSeedResult(cmd, result)
	}
	if err != nil {
		if runner.IsCanceled(err) {
			log.Warn("Seed operation cancelled by user")
		}
		return fmt.Errorf("seed operation failed: %w", err)
	}

	return nil
}

func printSeedResult(cmd *cobra.Command, result *runner.SeedResult) {
	if result.Success {
		cmd.Printf("\n=== Seed Complete ===\n")
	} else {
		cmd.Printf("\n=== Seed Failed ===\n")
	}
	cmd.Printf("Set: %s\n", result.SetName)
	cmd.Printf("Target: %s.%s\n", result.Database, result.Collection)
	cmd.Printf("Source: %s\n", result.Source)
	cmd.Printf("Duration: %s\n", result.Duration)
	cmd.Printf("Records Inserted: %d/%d\n", result.Inserted, result.Attempted)

	if v := result.Verification; v != nil {
		if v.Match {
			cmd.Printf("Verification: %s passed\n", v.Method)
		} else {
			cmd.Printf("Verification: %s FAILED (%s)\n", v.Method, v.ErrorMessage)
		}
	} else if result.Success {
		cmd.Printf("Verification: skipped\n")
	}

	cmd.Printf("Success: %v\n", result.Success)
}
