// Package config provides configuration structures and loading for GoSeed.
package config

// DefaultSeedSet is the seed set used when none is named on the command line.
const DefaultSeedSet = "products"

// Config represents the complete application configuration.
type Config struct {
	Mongo        MongoConfig              `yaml:"mongo" mapstructure:"mongo"`
	Seeds        map[string]SeedSetConfig `yaml:"seeds" mapstructure:"seeds"`
	Verification VerificationConfig       `yaml:"verification" mapstructure:"verification"`
	Logging      LoggingConfig            `yaml:"logging" mapstructure:"logging"`
}

// MongoConfig represents a MongoDB connection configuration.
// When URI is set it is used as-is and the discrete fields are ignored.
type MongoConfig struct {
	URI                   string `yaml:"uri" mapstructure:"uri"`
	Host                  string `yaml:"host" mapstructure:"host"`
	Port                  int    `yaml:"port" mapstructure:"port"`
	User                  string `yaml:"user" mapstructure:"user"`
	Password              string `yaml:"password" mapstructure:"password"`
	AuthSource            string `yaml:"auth_source" mapstructure:"auth_source"`
	TLS                   string `yaml:"tls" mapstructure:"tls"` // disable, required
	AppName               string `yaml:"app_name" mapstructure:"app_name"`
	ConnectTimeoutSeconds int    `yaml:"connect_timeout_seconds" mapstructure:"connect_timeout_seconds"`
}

// SeedSetConfig describes one named set of records and where it goes.
// Records come from exactly one of Records, File or Fixture.
type SeedSetConfig struct {
	Database     string              `yaml:"database" mapstructure:"database"`
	Collection   string              `yaml:"collection" mapstructure:"collection"`
	Fixture      string              `yaml:"fixture" mapstructure:"fixture"`
	File         string              `yaml:"file" mapstructure:"file"`
	Records      []RecordConfig      `yaml:"records" mapstructure:"records"`
	Verification *VerificationConfig `yaml:"verification,omitempty" mapstructure:"verification"`
}

// RecordConfig is the configuration form of a single seed record.
type RecordConfig struct {
	ID       string  `yaml:"id" mapstructure:"id"`
	Name     string  `yaml:"name" mapstructure:"name"`
	Price    float64 `yaml:"price" mapstructure:"price"`
	Category string  `yaml:"category" mapstructure:"category"`
}

// VerificationConfig represents post-seed verification settings.
type VerificationConfig struct {
	Method           string `yaml:"method" mapstructure:"method"` // "count" or "sha256"
	SkipVerification bool   `yaml:"skip_verification" mapstructure:"skip_verification"`
	ChunkSize        int    `yaml:"chunk_size,omitempty" mapstructure:"chunk_size"` // ids per $in filter; 0 uses the verifier default
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
// It already carries the products seed set, so a run without a config file
// seeds productdb.products from the built-in fixture.
func DefaultConfig() *Config {
	return &Config{
		Mongo: MongoConfig{
			Host:                  "localhost",
			Port:                  27017,
			AuthSource:            "admin",
			TLS:                   "disable",
			AppName:               "goseed",
			ConnectTimeoutSeconds: 10,
		},
		Seeds: map[string]SeedSetConfig{
			DefaultSeedSet: {
				Database:   "productdb",
				Collection: "products",
				Fixture:    "products",
			},
		},
		Verification: VerificationConfig{
			Method:           "count",
			SkipVerification: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// GetSetVerification returns the verification config for a seed set by name, falling back to global if not set.
func (c *Config) GetSetVerification(setName string) VerificationConfig {
	set, err := c.GetSeedSet(setName)
	if err != nil {
		return c.Verification
	}
	return set.GetSetVerification(c.Verification)
}

// GetSetVerification returns the verification config for a set, falling back to global if not set.
func (sc *SeedSetConfig) GetSetVerification(global VerificationConfig) VerificationConfig {
	if sc.Verification == nil {
		return global
	}

	result := global
	if sc.Verification.Method != "" {
		result.Method = sc.Verification.Method
	}
	result.SkipVerification = sc.Verification.SkipVerification || global.SkipVerification
	if sc.Verification.ChunkSize > 0 {
		result.ChunkSize = sc.Verification.ChunkSize
	}
	return result
}

// RecordSource names where the set's records come from: "records", "file", "fixture" or "" when none.
func (sc *SeedSetConfig) RecordSource() string {
	switch {
	case len(sc.Records) > 0:
		return "records"
	case sc.File != "":
		return "file"
	case sc.Fixture != "":
		return "fixture"
	default:
		return ""
	}
}
