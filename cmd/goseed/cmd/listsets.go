package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var listSetsCmd = &cobra.Command{
	Use:   "list-sets",
	Short: "List all seed sets defined in configuration",
	Long: `List-sets displays all seed sets defined in the configuration file
along with their target, record source and effective verification.

Example:
  goseed list-sets --config seeder.yaml`,
	RunE: runListSets,
}

func init() {
	rootCmd.AddCommand(listSetsCmd)
}

func runListSets(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	// Load configuration
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	setNames := cfg.ListSeedSets()

	if len(setNames) == 0 {
		cmd.Printf("No seed sets defined in %s\n", configFile)
		return nil
	}

	// Sort set names for consistent output
	sort.Strings(setNames)

	cmd.Printf("Seed sets defined in %s:\n\n", configFile)

	for i, setName := range setNames {
		set, err := cfg.GetSeedSet(setName)
		if err != nil {
			return fmt.Errorf("failed to get seed set %q: %w", setName, err)
		}

		cmd.Printf("%d. %s\n", i+1, setName)
		cmd.Printf("   Target:        %s.%s\n", set.Database, set.Collection)

		switch set.RecordSource() {
		case "records":
			cmd.Printf("   Source:        inline (%d record(s))\n", len(set.Records))
		case "file":
			cmd.Printf("   Source:        file %s\n", set.File)
		case "fixture":
			cmd.Printf("   Source:        fixture %s\n", set.Fixture)
		default:
			cmd.Printf("   Source:        (none)\n")
		}

		verification := cfg.GetSetVerification(setName)
		scope := "global"
		if set.Verification != nil {
			scope = "set override"
		}
		switch {
		case verification.SkipVerification:
			cmd.Printf("   Verification:  skipped (%s)\n", scope)
		case verification.ChunkSize > 0:
			cmd.Printf("   Verification:  %s, chunk size %d (%s)\n", verification.Method, verification.ChunkSize, scope)
		default:
			cmd.Printf("   Verification:  %s (%s)\n", verification.Method, scope)
		}

		if i < len(setNames)-1 {
			cmd.Println()
		}
	}

	cmd.Printf("\nTotal: %d seed set(s)\n", len(setNames))
	return nil
}
