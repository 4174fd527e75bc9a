// Package runner coordinates a seed run: it resolves the named seed set,
// inserts its records and verifies the result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dbsmedya/goseed/internal/config"
	"github.com/dbsmedya/goseed/internal/logger"
	"github.com/dbsmedya/goseed/internal/record"
	"github.com/dbsmedya/goseed/internal/seeder"
	"github.com/dbsmedya/goseed/internal/verifier"
)

// SeedResult contains statistics and status of a seed run.
type SeedResult struct {
	SetName      string
	Database     string
	Collection   string
	Source       string
	StartedAt    time.Time
	CompletedAt  time.Time
	Duration     time.Duration
	Attempted    int
	Inserted     int
	Verification *verifier.VerifyResult
	Success      bool
}

// Runner executes one seed set. Initialize must be called before Execute
// or Estimate; it needs no connection, so malformed sets fail before one
// is opened.
type Runner struct {
	config          *config.Config
	setName         string
	setConfig       *config.SeedSetConfig
	logger          *logger.Logger
	records         []record.Record
	initialized     bool
	verificationCfg config.VerificationConfig // Effective verification config (set-specific or global)
}

// NewRunner creates a runner for the named seed set.
func NewRunner(cfg *config.Config, setName string, log *logger.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	setCfg, err := cfg.GetSeedSet(setName)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewDefault()
	}

	return &Runner{
		config:          cfg,
		setName:         setName,
		setConfig:       setCfg,
		logger:          log.WithSet(setName),
		verificationCfg: setCfg.GetSetVerification(cfg.Verification),
	}, nil
}

// Initialize resolves the set's records and validates them.
func (r *Runner) Initialize() error {
	if r.initialized {
		return nil
	}

	records, err := record.Resolve(r.setConfig)
	if err != nil {
		return fmt.Errorf("failed to resolve records for seed set %q: %w", r.setName, err)
	}

	if err := record.Validate(records); err != nil {
		return fmt.Errorf("%w: seed set %q: %w", seeder.ErrValidation, r.setName, err)
	}

	r.records = records
	r.initialized = true

	r.logger.Infow("Seed set resolved",
		"source", r.source(),
		"records", len(records),
		"database", r.setConfig.Database,
		"collection", r.setConfig.Collection,
	)
	return nil
}

// Records returns the resolved records. Returns an error if the runner has not been initialized.
func (r *Runner) Records() ([]record.Record, error) {
	if !r.initialized {
		return nil, fmt.Errorf("runner not initialized")
	}
	return r.records, nil
}

// Execute seeds the set into store and verifies the result unless
// verification is skipped. On a failed insert the returned result still
// reports how many records were written.
func (r *Runner) Execute(ctx context.Context, store seeder.Store) (*SeedResult, error) {
	if !r.initialized {
		return nil, fmt.Errorf("runner not initialized")
	}
	if ctx == nil {
		return nil, fmt.Errorf("context is nil")
	}

	result := &SeedResult{
		SetName:    r.setName,
		Database:   r.setConfig.Database,
		Collection: r.setConfig.Collection,
		Source:     r.source(),
		StartedAt:  time.Now(),
		Attempted:  len(r.records),
	}
	defer func() {
		result.CompletedAt = time.Now()
		result.Duration = result.CompletedAt.Sub(result.StartedAt)
	}()

	r.logger.Infow("Starting seed execution",
		"records", len(r.records),
		"verification_method", r.verificationCfg.Method,
		"skip_verification", r.verificationCfg.SkipVerification,
	)

	s, err := seeder.New(store, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create seeder: %w", err)
	}

	seedResult, err := s.Seed(ctx, r.setConfig.Database, r.setConfig.Collection, r.records)
	if seedResult != nil {
		result.Inserted = seedResult.Inserted
	}
	if err != nil {
		return result, err
	}

	if r.verificationCfg.SkipVerification || len(r.records) == 0 {
		result.Success = true
		return result, nil
	}

	v, err := verifier.NewVerifier(verifier.VerificationMethod(r.verificationCfg.Method), r.logger)
	if err != nil {
		return result, fmt.Errorf("failed to create verifier: %w", err)
	}
	v.SetChunkSize(r.verificationCfg.ChunkSize)

	r.logger.Debugw("Verifying seeded documents",
		"method", v.GetMethod(),
		"records", len(r.records),
	)

	coll := store.Database(r.setConfig.Database).Collection(r.setConfig.Collection)
	verifyResult, err := v.Verify(ctx, coll, r.records)
	result.Verification = verifyResult
	if err != nil {
		return result, fmt.Errorf("verification of %s.%s: %w", r.setConfig.Database, r.setConfig.Collection, err)
	}

	result.Success = true
	return result, nil
}

func (r *Runner) source() string {
	switch src := r.setConfig.RecordSource(); src {
	case "file":
		return "file:" + r.setConfig.File
	case "fixture":
		return "fixture:" + r.setConfig.Fixture
	case "":
		return "none"
	default:
		return src
	}
}

// IsCanceled reports whether err came from context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
