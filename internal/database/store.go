package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dbsmedya/goseed/internal/record"
	"github.com/dbsmedya/goseed/internal/seeder"
)

// Store adapts a *mongo.Client to seeder.Store.
type Store struct {
	client *mongo.Client
}

// NewStore wraps client.
func NewStore(client *mongo.Client) *Store {
	return &Store{client: client}
}

// Database implements seeder.Store.
func (s *Store) Database(name string) seeder.Database {
	return &mongoDatabase{db: s.client.Database(name)}
}

type mongoDatabase struct {
	db *mongo.Database
}

func (d *mongoDatabase) Collection(name string) seeder.Collection {
	return &mongoCollection{coll: d.db.Collection(name)}
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) InsertMany(ctx context.Context, documents []any) (int, error) {
	res, err := c.coll.InsertMany(ctx, documents, options.InsertMany().SetOrdered(true))
	if err != nil {
		return insertedBefore(err, len(documents)), err
	}
	return len(res.InsertedIDs), nil
}

func (c *mongoCollection) CountDocuments(ctx context.Context, filter any) (int64, error) {
	return c.coll.CountDocuments(ctx, filter)
}

func (c *mongoCollection) FindDocuments(ctx context.Context, filter any) ([]record.Document, error) {
	cursor, err := c.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []record.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return docs, nil
}

// insertedBefore works out how many documents an ordered insert wrote
// before failing. Write errors carry the index of the failing document;
// without one, nothing is known to be written.
func insertedBefore(err error, total int) int {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return 0
	}
	if len(bwe.WriteErrors) == 0 {
		// Only a write concern error: every document was applied on the primary
		return total
	}

	first := bwe.WriteErrors[0].Index
	for _, we := range bwe.WriteErrors[1:] {
		if we.Index < first {
			first = we.Index
		}
	}
	if first > total {
		return total
	}
	return first
}
