package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadOrDefault behaves like Load, but returns DefaultConfig when the file
// does not exist. Any other read or parse error is returned.
func LoadOrDefault(configPath string) (*Config, bool, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		cfg := DefaultConfig()
		if err := substituteEnvVars(cfg); err != nil {
			return nil, false, fmt.Errorf("failed to substitute environment variables: %w", err)
		}
		return cfg, false, nil
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	// A config file that declares seeds replaces the built-in set list
	// instead of merging into it.
	if v.IsSet("seeds") {
		cfg.Seeds = nil
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := substituteEnvVars(cfg); err != nil {
		return nil, fmt.Errorf("failed to substitute environment variables: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) error {
	cfg.Mongo.URI = expandEnvVar(cfg.Mongo.URI)
	cfg.Mongo.Host = expandEnvVar(cfg.Mongo.Host)
	cfg.Mongo.User = expandEnvVar(cfg.Mongo.User)
	cfg.Mongo.Password = expandEnvVar(cfg.Mongo.Password)
	cfg.Mongo.AuthSource = expandEnvVar(cfg.Mongo.AuthSource)

	for name, set := range cfg.Seeds {
		set.Database = expandEnvVar(set.Database)
		set.Collection = expandEnvVar(set.Collection)
		set.File = expandEnvVar(set.File)
		cfg.Seeds[name] = set
	}

	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// GetSeedSet retrieves a specific seed set configuration by name.
func (c *Config) GetSeedSet(name string) (*SeedSetConfig, error) {
	set, exists := c.Seeds[c.seedSetKey(name)]
	if !exists {
		return nil, fmt.Errorf("seed set %q not found in configuration", name)
	}
	return &set, nil
}

// ListSeedSets returns all seed set names defined in the configuration.
func (c *Config) ListSeedSets() []string {
	sets := make([]string, 0, len(c.Seeds))
	for name := range c.Seeds {
		sets = append(sets, name)
	}
	return sets
}

// ApplyOverrides applies CLI flag overrides to the global configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat, uri string, skipVerify bool) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if uri != "" {
		c.Mongo.URI = uri
	}
	if skipVerify {
		c.Verification.SkipVerification = true
	}
}

// ApplySetOverrides retargets a seed set at a different database or collection.
// Empty values leave the configured target in place.
func (c *Config) ApplySetOverrides(setName, database, collection string) error {
	key := c.seedSetKey(setName)
	set, exists := c.Seeds[key]
	if !exists {
		return fmt.Errorf("seed set %q not found in configuration", setName)
	}
	if database != "" {
		set.Database = database
	}
	if collection != "" {
		set.Collection = collection
	}
	c.Seeds[key] = set
	return nil
}

// seedSetKey maps a set name onto its key in Seeds. Viper lowercases map
// keys read from files, so an exact match is tried first, then the
// lowercased name.
func (c *Config) seedSetKey(name string) string {
	if _, exists := c.Seeds[name]; exists {
		return name
	}
	return strings.ToLower(name)
}
