// Package seedertest provides an in-memory seeder.Store for tests.
//
// Duplicate ids fail the way the server does: an ordered insert stops at the
// conflicting document and returns a mongo.BulkWriteException with code 11000.
package seedertest

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dbsmedya/goseed/internal/record"
	"github.com/dbsmedya/goseed/internal/seeder"
)

// Store is an in-memory seeder.Store.
type Store struct {
	mu          sync.Mutex
	collections map[string]*Collection
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{collections: make(map[string]*Collection)}
}

// Database implements seeder.Store.
func (s *Store) Database(name string) seeder.Database {
	return database{store: s, name: name}
}

// Collection returns the concrete collection for database.name, creating it on first use.
func (s *Store) Collection(database, name string) *Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := database + "." + name
	c, ok := s.collections[key]
	if !ok {
		c = &Collection{namespace: key, byID: make(map[string]record.Document)}
		s.collections[key] = c
	}
	return c
}

type database struct {
	store *Store
	name  string
}

func (d database) Collection(name string) seeder.Collection {
	return d.store.Collection(d.name, name)
}

// Collection is an in-memory collection keyed by _id.
type Collection struct {
	mu        sync.Mutex
	namespace string
	byID      map[string]record.Document

	// InsertErr, when set, is returned by InsertMany after InsertFailAfter documents.
	InsertErr       error
	InsertFailAfter int
	// ReadErr, when set, is returned by CountDocuments and FindDocuments.
	ReadErr error
	// Inserts counts InsertMany calls.
	Inserts int
	// Reads counts CountDocuments and FindDocuments calls.
	Reads int
}

// InsertMany implements seeder.Collection with ordered semantics.
func (c *Collection) InsertMany(ctx context.Context, documents []any) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Inserts++
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(documents) == 0 {
		return 0, fmt.Errorf("must provide at least one element in input slice")
	}

	for i, raw := range documents {
		if c.InsertErr != nil && i >= c.InsertFailAfter {
			return i, c.InsertErr
		}

		doc, ok := raw.(record.Document)
		if !ok {
			return i, fmt.Errorf("unsupported document type %T", raw)
		}

		key := string(doc.ID.Data)
		if _, exists := c.byID[key]; exists {
			return i, duplicateKeyError(c.namespace, i)
		}
		c.byID[key] = doc
	}
	return len(documents), nil
}

// CountDocuments implements seeder.Collection.
func (c *Collection) CountDocuments(ctx context.Context, filter any) (int64, error) {
	docs, err := c.FindDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

// FindDocuments implements seeder.Collection. It understands an empty
// filter and the {_id: {$in: [...]}} filter built by record.IDFilter.
func (c *Collection) FindDocuments(ctx context.Context, filter any) ([]record.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Reads++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.ReadErr != nil {
		return nil, c.ReadErr
	}

	keys, all, err := idsFromFilter(filter)
	if err != nil {
		return nil, err
	}

	var out []record.Document
	if all {
		for _, doc := range c.byID {
			out = append(out, doc)
		}
	} else {
		for key := range keys {
			if doc, ok := c.byID[key]; ok {
				out = append(out, doc)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].ID.Data, out[j].ID.Data) < 0
	})
	return out, nil
}

// Len returns the number of stored documents.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byID)
}

// Put stores doc directly, bypassing InsertMany.
func (c *Collection) Put(doc record.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[string(doc.ID.Data)] = doc
}

func idsFromFilter(filter any) (map[string]struct{}, bool, error) {
	d, ok := filter.(bson.D)
	if !ok {
		return nil, false, fmt.Errorf("unsupported filter type %T", filter)
	}
	if len(d) == 0 {
		return nil, true, nil
	}
	if len(d) != 1 || d[0].Key != "_id" {
		return nil, false, fmt.Errorf("unsupported filter %v", d)
	}

	op, ok := d[0].Value.(bson.D)
	if !ok || len(op) != 1 || op[0].Key != "$in" {
		return nil, false, fmt.Errorf("unsupported _id filter %v", d[0].Value)
	}
	values, ok := op[0].Value.(bson.A)
	if !ok {
		return nil, false, fmt.Errorf("unsupported $in operand %T", op[0].Value)
	}

	keys := make(map[string]struct{}, len(values))
	for _, v := range values {
		bin, ok := v.(bson.Binary)
		if !ok {
			return nil, false, fmt.Errorf("unsupported _id value %T", v)
		}
		keys[string(bin.Data)] = struct{}{}
	}
	return keys, false, nil
}

func duplicateKeyError(namespace string, index int) error {
	return mongo.BulkWriteException{
		WriteErrors: []mongo.BulkWriteError{{
			WriteError: mongo.WriteError{
				Index:   index,
				Code:    11000,
				Message: fmt.Sprintf("E11000 duplicate key error collection: %s index: _id_ dup key", namespace),
			},
		}},
	}
}
