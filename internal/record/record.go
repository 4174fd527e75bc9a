// Package record defines the seed record, its stored document form and the
// built-in fixture sets.
package record

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// uuidSubtype is the BSON binary subtype for RFC 4122 UUIDs, the encoding
// the mongo shell's UUID() helper produces.
const uuidSubtype byte = 0x04

// Record is one product document to be seeded.
type Record struct {
	ID       uuid.UUID
	Name     string
	Price    float64
	Category string
}

// Document is the persisted layout of a Record. Field order is the order
// written to the collection.
type Document struct {
	ID       bson.Binary `bson:"_id"`
	Name     string      `bson:"name"`
	Price    float64     `bson:"price"`
	Category string      `bson:"category"`
}

// New parses id and builds a Record.
func New(id, name string, price float64, category string) (Record, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Record{}, fmt.Errorf("invalid record id %q: %w", id, err)
	}
	return Record{ID: parsed, Name: name, Price: price, Category: category}, nil
}

// MustNew is like New but panics on an unparsable id. Only for literal fixtures.
func MustNew(id, name string, price float64, category string) Record {
	r, err := New(id, name, price, category)
	if err != nil {
		panic(err)
	}
	return r
}

// Document returns the stored form of r.
func (r Record) Document() Document {
	return Document{
		ID:       BinaryID(r.ID),
		Name:     r.Name,
		Price:    r.Price,
		Category: r.Category,
	}
}

// Record converts a stored document back into a Record.
func (d Document) Record() (Record, error) {
	if d.ID.Subtype != uuidSubtype {
		return Record{}, fmt.Errorf("_id has binary subtype 0x%02x, expected 0x%02x", d.ID.Subtype, uuidSubtype)
	}
	id, err := uuid.FromBytes(d.ID.Data)
	if err != nil {
		return Record{}, fmt.Errorf("_id is not a valid uuid: %w", err)
	}
	return Record{ID: id, Name: d.Name, Price: d.Price, Category: d.Category}, nil
}

// Canonical renders r as a single stable line, used for hashing.
func (r Record) Canonical() string {
	return r.ID.String() + "|" + r.Name + "|" + strconv.FormatFloat(r.Price, 'g', -1, 64) + "|" + r.Category
}

// BinaryID encodes a UUID as a BSON subtype-4 binary value.
func BinaryID(id uuid.UUID) bson.Binary {
	data := make([]byte, len(id))
	copy(data, id[:])
	return bson.Binary{Subtype: uuidSubtype, Data: data}
}

// Documents converts records to a slice ready for InsertMany.
func Documents(records []Record) []any {
	docs := make([]any, len(records))
	for i, r := range records {
		docs[i] = r.Document()
	}
	return docs
}

// IDs returns the record ids in input order.
func IDs(records []Record) []uuid.UUID {
	ids := make([]uuid.UUID, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

// IDFilter matches every document whose _id is one of ids.
func IDFilter(ids []uuid.UUID) bson.D {
	in := make(bson.A, len(ids))
	for i, id := range ids {
		in[i] = BinaryID(id)
	}
	return bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: in}}}}
}
