package config

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	if err := c.validateMongo(); err != nil {
		errors = append(errors, err...)
	}

	if len(c.Seeds) == 0 {
		errors = append(errors, ValidationError{
			Field:   "seeds",
			Message: "at least one seed set must be defined",
		})
	}

	// Sorted so the report is stable between runs
	names := c.ListSeedSets()
	sort.Strings(names)
	for _, name := range names {
		set := c.Seeds[name]
		if err := c.validateSeedSet(name, &set); err != nil {
			errors = append(errors, err...)
		}
	}

	if err := validateVerification("verification", &c.Verification); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateLogging(); err != nil {
		errors = append(errors, err...)
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateMongo() ValidationErrors {
	var errors ValidationErrors

	if c.Mongo.URI != "" {
		if !strings.HasPrefix(c.Mongo.URI, "mongodb://") && !strings.HasPrefix(c.Mongo.URI, "mongodb+srv://") {
			errors = append(errors, ValidationError{
				Field:   "mongo.uri",
				Message: "uri must start with 'mongodb://' or 'mongodb+srv://'",
			})
		}
	} else {
		if c.Mongo.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "mongo.host",
				Message: "host is required when uri is not set",
			})
		}

		if c.Mongo.Port <= 0 || c.Mongo.Port > 65535 {
			errors = append(errors, ValidationError{
				Field:   "mongo.port",
				Message: "port must be between 1 and 65535",
			})
		}

		if c.Mongo.Password != "" && c.Mongo.User == "" {
			errors = append(errors, ValidationError{
				Field:   "mongo.user",
				Message: "user is required when password is set",
			})
		}
	}

	validTLS := map[string]bool{"disable": true, "required": true, "": true}
	if !validTLS[c.Mongo.TLS] {
		errors = append(errors, ValidationError{
			Field:   "mongo.tls",
			Message: "tls must be 'disable' or 'required'",
		})
	}

	if c.Mongo.ConnectTimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "mongo.connect_timeout_seconds",
			Message: "connect_timeout_seconds cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateSeedSet(name string, set *SeedSetConfig) ValidationErrors {
	var errors ValidationErrors
	prefix := fmt.Sprintf("seeds.%s", name)

	if set.Database == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".database",
			Message: "database is required",
		})
	} else if strings.ContainsAny(set.Database, `/\. "$`) {
		errors = append(errors, ValidationError{
			Field:   prefix + ".database",
			Message: "database name cannot contain '/', '\\', '.', ' ', '\"' or '$'",
		})
	}

	if set.Collection == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".collection",
			Message: "collection is required",
		})
	} else if strings.HasPrefix(set.Collection, "system.") || strings.Contains(set.Collection, "$") {
		errors = append(errors, ValidationError{
			Field:   prefix + ".collection",
			Message: "collection name cannot start with 'system.' or contain '$'",
		})
	}

	sources := 0
	if len(set.Records) > 0 {
		sources++
	}
	if set.File != "" {
		sources++
	}
	if set.Fixture != "" {
		sources++
	}
	if sources > 1 {
		errors = append(errors, ValidationError{
			Field:   prefix,
			Message: "only one of records, file or fixture may be set",
		})
	}

	for i, rec := range set.Records {
		if rec.ID == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s.records[%d].id", prefix, i),
				Message: "id is required",
			})
		}
	}

	if set.Verification != nil {
		if err := validateVerification(prefix+".verification", set.Verification); err != nil {
			errors = append(errors, err...)
		}
	}

	return errors
}

func validateVerification(prefix string, v *VerificationConfig) ValidationErrors {
	var errors ValidationErrors

	validMethods := map[string]bool{"count": true, "sha256": true, "skip": true, "": true}
	if !validMethods[v.Method] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".method",
			Message: "method must be 'count', 'sha256' or 'skip'",
		})
	}

	if v.ChunkSize < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".chunk_size",
			Message: "chunk_size cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
