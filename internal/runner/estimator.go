package runner

import (
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dbsmedya/goseed/internal/record"
	"github.com/dbsmedya/goseed/internal/seeder"
)

// EstimateResult holds dry-run results.
type EstimateResult struct {
	SetName            string
	Database           string
	Collection         string
	Source             string
	Records            []record.Record
	ExistingIDs        int64 // seeded ids already present in the collection
	CollectionSize     int64
	VerificationMethod string
	SkipVerification   bool
}

// WouldConflict reports whether a seed run would fail with a duplicate key.
func (e *EstimateResult) WouldConflict() bool {
	return e.ExistingIDs > 0
}

// Estimate reads the target collection and reports what a seed run would do.
// It never writes.
func (r *Runner) Estimate(ctx context.Context, store seeder.Store) (*EstimateResult, error) {
	if !r.initialized {
		return nil, fmt.Errorf("runner not initialized")
	}
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}

	result := &EstimateResult{
		SetName:            r.setName,
		Database:           r.setConfig.Database,
		Collection:         r.setConfig.Collection,
		Source:             r.source(),
		Records:            r.records,
		VerificationMethod: r.verificationCfg.Method,
		SkipVerification:   r.verificationCfg.SkipVerification,
	}

	coll := store.Database(r.setConfig.Database).Collection(r.setConfig.Collection)

	size, err := coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to count collection: %w", err)
	}
	result.CollectionSize = size

	if len(r.records) > 0 {
		existing, err := coll.CountDocuments(ctx, record.IDFilter(record.IDs(r.records)))
		if err != nil {
			return nil, fmt.Errorf("failed to count existing ids: %w", err)
		}
		result.ExistingIDs = existing
	}

	r.logger.WithFields(map[string]interface{}{
		"database":   r.setConfig.Database,
		"collection": r.setConfig.Collection,
	}).Infow("Dry-run estimate complete",
		"records", len(r.records),
		"collection_size", size,
		"existing_ids", result.ExistingIDs,
	)
	return result, nil
}

// DisplayExecutionPlan writes a human-readable dry-run report to w.
func DisplayExecutionPlan(w io.Writer, result *EstimateResult) {
	fmt.Fprintf(w, "\n=== Dry-Run: %s ===\n\n", result.SetName)
	fmt.Fprintf(w, "Target: %s.%s\n", result.Database, result.Collection)
	fmt.Fprintf(w, "Source: %s\n", result.Source)
	fmt.Fprintf(w, "Documents currently in collection: %d\n\n", result.CollectionSize)

	fmt.Fprintf(w, "Records to insert (%d):\n", len(result.Records))
	for i, r := range result.Records {
		fmt.Fprintf(w, "  %d. %s  %-12s %10.2f  %s\n", i+1, r.ID, r.Name, r.Price, r.Category)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Configuration Summary:\n")
	fmt.Fprintf(w, "  Verification method: %s\n", result.VerificationMethod)
	fmt.Fprintf(w, "  Skip verification: %v\n", result.SkipVerification)

	if result.WouldConflict() {
		fmt.Fprintf(w, "\n⚠️  %d of %d ids already exist: seeding would fail with a duplicate key error.\n",
			result.ExistingIDs, len(result.Records))
	} else {
		fmt.Fprintf(w, "\n✅ No id conflicts detected.\n")
	}

	fmt.Fprintln(w, "\n=== End of Dry-Run ===")
	fmt.Fprintln(w, "\nℹ️  No data was modified. Use 'seed' command to execute.")
}
