package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dbsmedya/goseed/internal/config"
	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

const defaultConfigFile = "seeder.yaml"

// CLI flags that override config file values
var (
	cfgFile   string
	logLevel  string
	logFormat string
	mongoURI  string
)

var rootCmd = &cobra.Command{
	Use:   "goseed",
	Short: "MongoDB fixture seeder",
	Long: `A CLI tool that seeds a MongoDB collection with a fixed set of records
in one ordered bulk insert.

Features:
  - Built-in product fixture, inline records or YAML/JSON/TOML record files
  - UUID ids stored as BSON binary subtype 4
  - Typed errors for connection, duplicate key, validation and insert failures
  - Post-insert verification (count and SHA256)`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile,
		"Path to configuration file (built-in defaults are used when the default file is absent)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Connection override
	rootCmd.PersistentFlags().StringVar(&mongoURI, "uri", "",
		"Override MongoDB connection URI (mongodb:// or mongodb+srv://)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel   string
	LogFormat  string
	URI        string
	SkipVerify bool
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:   logLevel,
		LogFormat:  logFormat,
		URI:        mongoURI,
		SkipVerify: seedSkipVerify,
	}
}

// loadConfig reads the config file and applies global overrides. Only the
// default path may be missing. Callers validate after their own overrides.
func loadConfig(configFile string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile == defaultConfigFile {
		cfg, _, err = config.LoadOrDefault(configFile)
	} else {
		cfg, err = config.Load(configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.URI, overrides.SkipVerify)

	return cfg, nil
}

// commandContext returns the command's context, or Background when the
// command is run without Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
