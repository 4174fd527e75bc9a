// Package seeder inserts a fixed record set into a MongoDB collection.
//
// A seed run selects the named database, performs one ordered bulk insert
// and reports how many records were written. It is not transactional: when
// the insert stops at a failing record, the records before it stay.
package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/dbsmedya/goseed/internal/logger"
	"github.com/dbsmedya/goseed/internal/record"
)

// Store is an open handle to a database deployment.
type Store interface {
	Database(name string) Database
}

// Database is one logical database on a Store.
type Database interface {
	Collection(name string) Collection
}

// Collection is the subset of collection operations seeding and verification need.
type Collection interface {
	// InsertMany inserts documents in order, stopping at the first failure.
	// It returns how many documents were written before returning.
	InsertMany(ctx context.Context, documents []any) (int, error)
	CountDocuments(ctx context.Context, filter any) (int64, error)
	// FindDocuments returns matching documents ordered by _id.
	FindDocuments(ctx context.Context, filter any) ([]record.Document, error)
}

// Seed inserts records into databaseName.collectionName and returns the number inserted.
// An empty record list inserts nothing and succeeds. Errors are *SeedError.
func Seed(ctx context.Context, store Store, databaseName, collectionName string, records []record.Record) (int, error) {
	if store == nil {
		return 0, &SeedError{
			Kind:       ErrConnection,
			Database:   databaseName,
			Collection: collectionName,
			Err:        fmt.Errorf("store is nil"),
		}
	}

	if err := record.Validate(records); err != nil {
		return 0, &SeedError{
			Kind:       ErrValidation,
			Database:   databaseName,
			Collection: collectionName,
			Err:        err,
		}
	}

	if len(records) == 0 {
		return 0, nil
	}

	coll := store.Database(databaseName).Collection(collectionName)

	inserted, err := coll.InsertMany(ctx, record.Documents(records))
	if err != nil {
		seedErr := &SeedError{
			Kind:       Classify(err),
			Database:   databaseName,
			Collection: collectionName,
			Inserted:   inserted,
			Err:        err,
		}
		if blamesRecord(seedErr.Kind) && inserted >= 0 && inserted < len(records) {
			seedErr.RecordID = records[inserted].ID.String()
		}
		return inserted, seedErr
	}

	return inserted, nil
}

// blamesRecord reports whether a failure of this kind is caused by the
// record the insert stopped at.
func blamesRecord(kind error) bool {
	return kind != ErrConnection && kind != ErrCanceled
}

// Result describes a completed seed run.
type Result struct {
	Database   string
	Collection string
	Attempted  int
	Inserted   int
	StartedAt  time.Time
	Duration   time.Duration
}

// Seeder runs Seed against one store with logging and timing.
type Seeder struct {
	store  Store
	logger *logger.Logger
}

// New creates a Seeder. A nil logger falls back to the default logger.
func New(store Store, log *logger.Logger) (*Seeder, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Seeder{store: store, logger: log}, nil
}

// Seed inserts records into database.collection. The returned Result is
// non-nil even on failure and reports the partial insert count.
func (s *Seeder) Seed(ctx context.Context, database, collection string, records []record.Record) (*Result, error) {
	log := s.logger.WithDatabase(database).WithCollection(collection)

	result := &Result{
		Database:   database,
		Collection: collection,
		Attempted:  len(records),
		StartedAt:  time.Now(),
	}

	log.Infow("Inserting seed records", "records", len(records))

	inserted, err := Seed(ctx, s.store, database, collection, records)
	result.Inserted = inserted
	result.Duration = time.Since(result.StartedAt)

	if err != nil {
		log.Errorw("Seed insert failed",
			"inserted", inserted,
			"error", err,
		)
		return result, err
	}

	log.Infow("Seed insert complete",
		"inserted", inserted,
		"duration", result.Duration,
	)
	return result, nil
}
