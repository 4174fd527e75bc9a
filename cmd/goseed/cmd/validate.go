package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/dbsmedya/goseed/internal/database"
	"github.com/dbsmedya/goseed/internal/logger"
	"github.com/dbsmedya/goseed/internal/runner"
	"github.com/spf13/cobra"
)

var validateOffline bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and seed sets",
	Long: `Validate checks the configuration file, resolves every seed set and
checks its records, then pings MongoDB.

Checks performed:
  - Configuration syntax and required fields
  - Record sources resolve (inline, file, fixture)
  - Record ids present and unique, names and categories set, prices valid
  - MongoDB connectivity (skipped with --offline)

Example:
  goseed validate --config seeder.yaml
  goseed validate --offline`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateOffline, "offline", false,
		"Skip the MongoDB connectivity check")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	// Load configuration
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	cmd.Printf("\n=== Configuration Validation ===\n")
	cmd.Printf("Config file: %s\n", configFile)
	cmd.Printf("Seed sets found: %d\n\n", len(cfg.Seeds))

	if err := cfg.Validate(); err != nil {
		cmd.Printf("❌ %v\n", err)
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize logger
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	setNames := cfg.ListSeedSets()
	sort.Strings(setNames)

	hasErrors := false
	for _, setName := range setNames {
		cmd.Printf("--- Seed set: %s ---\n", setName)

		r, err := runner.NewRunner(cfg, setName, log)
		if err != nil {
			cmd.Printf("❌ %v\n\n", err)
			hasErrors = true
			continue
		}
		if err := r.Initialize(); err != nil {
			cmd.Printf("❌ %v\n\n", err)
			hasErrors = true
			continue
		}

		records, _ := r.Records()
		cmd.Printf("Records: %d\n", len(records))
		cmd.Printf("✅ Seed set is valid\n\n")
	}

	if hasErrors {
		return fmt.Errorf("validation failed for one or more seed sets")
	}

	if validateOffline {
		cmd.Println("MongoDB connectivity: skipped (--offline)")
	} else {
		ctx := commandContext(cmd)
		dbManager := database.NewManager(&cfg.Mongo)
		if err := dbManager.Connect(ctx); err != nil {
			cmd.Printf("❌ MongoDB connectivity: %v\n", err)
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		defer dbManager.Close(context.Background())

		if err := dbManager.Ping(ctx); err != nil {
			return fmt.Errorf("MongoDB connection failed: %w", err)
		}
		cmd.Printf("✅ MongoDB connectivity: %s\n", database.RedactURI(database.BuildURI(&cfg.Mongo)))
	}

	cmd.Println("\n=== Validation Complete ===")
	cmd.Println("✅ All seed sets validated successfully")
	return nil
}
