package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommandStructure(t *testing.T) {
	assert.NotNil(t, validateCmd)
	assert.Equal(t, "validate", validateCmd.Use)
	assert.NotEmpty(t, validateCmd.Short)
	assert.Contains(t, validateCmd.Long, "Example:")
	assert.NotNil(t, validateCmd.RunE)

	offline := validateCmd.Flags().Lookup("offline")
	require.NotNil(t, offline)
	assert.Equal(t, "false", offline.DefValue)
}

func TestRunValidateOffline(t *testing.T) {
	originalCfgFile := cfgFile
	originalOffline := validateOffline
	defer func() {
		cfgFile = originalCfgFile
		validateOffline = originalOffline
	}()

	invalid := testConfig()
	set := invalid.Seeds["gadgets"]
	set.Records[0].Name = "  "
	invalid.Seeds["gadgets"] = set

	badConfig := testConfig()
	badConfig.Mongo.Port = 70000

	tests := []struct {
		name       string
		configFile string
		wantErr    bool
		wantOutput []string
	}{
		{
			name:       "valid seed sets",
			configFile: createTempTestConfig(t, testConfig()),
			wantOutput: []string{
				"=== Configuration Validation ===",
				"Seed sets found: 2",
				"--- Seed set: catalog ---",
				"Records: 3",
				"--- Seed set: gadgets ---",
				"Records: 2",
				"MongoDB connectivity: skipped",
				"=== Validation Complete ===",
			},
		},
		{
			name:       "invalid record",
			configFile: createTempTestConfig(t, invalid),
			wantErr:    true,
			wantOutput: []string{"--- Seed set: gadgets ---", "❌"},
		},
		{
			name:       "invalid mongo port",
			configFile: createTempTestConfig(t, badConfig),
			wantErr:    true,
			wantOutput: []string{"mongo.port"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgFile = tt.configFile
			validateOffline = true

			var buf bytes.Buffer
			validateCmd.SetOut(&buf)
			defer validateCmd.SetOut(nil)

			err := runValidate(validateCmd, []string{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			for _, want := range tt.wantOutput {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}
