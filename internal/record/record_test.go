package record

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dbsmedya/goseed/internal/config"
)

func TestProductsFixtureLiterals(t *testing.T) {
	products := Products()
	require.Len(t, products, 3)

	expected := []struct {
		id       string
		name     string
		price    float64
		category string
	}{
		{"550e8400-e29b-41d4-a716-446655440002", "Laptop", 999.99, "Electronics"},
		{"550e8400-e29b-41d4-a716-446655440003", "Headphones", 49.99, "Accessories"},
		{"550e8400-e29b-41d4-a716-446655440006", "Smartphone", 699.99, "Electronics"},
	}

	for i, want := range expected {
		assert.Equal(t, want.id, products[i].ID.String())
		assert.Equal(t, want.name, products[i].Name)
		assert.Equal(t, want.price, products[i].Price)
		assert.Equal(t, want.category, products[i].Category)
	}

	assert.NoError(t, Validate(products))
}

func TestProductsReturnsFreshSlice(t *testing.T) {
	first := Products()
	first[0].Name = "Changed"

	assert.Equal(t, "Laptop", Products()[0].Name)
}

func TestFixture(t *testing.T) {
	records, err := Fixture("products")
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = Fixture("customers")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "products")

	assert.Equal(t, []string{"products"}, FixtureNames())
}

func TestNewInvalidID(t *testing.T) {
	_, err := New("not-a-uuid", "Laptop", 1, "Electronics")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not-a-uuid")
}

func TestDocumentLayout(t *testing.T) {
	r := Products()[1]

	raw, err := bson.Marshal(r.Document())
	require.NoError(t, err)

	elems, err := bson.Raw(raw).Elements()
	require.NoError(t, err)
	keys := make([]string, len(elems))
	for i, e := range elems {
		keys[i] = e.Key()
	}
	assert.Equal(t, []string{"_id", "name", "price", "category"}, keys)

	subtype, data := bson.Raw(raw).Lookup("_id").Binary()
	assert.Equal(t, byte(0x04), subtype)
	assert.Equal(t, r.ID[:], data)

	assert.Equal(t, "Headphones", bson.Raw(raw).Lookup("name").StringValue())
	assert.Equal(t, 49.99, bson.Raw(raw).Lookup("price").Double())
	assert.Equal(t, "Accessories", bson.Raw(raw).Lookup("category").StringValue())

	var decoded Document
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	back, err := decoded.Record()
	require.NoError(t, err)
	assert.Equal(t, r, back)
}

func TestDocumentRecordRejectsWrongSubtype(t *testing.T) {
	d := Document{ID: bson.Binary{Subtype: 0x00, Data: make([]byte, 16)}, Name: "x"}
	_, err := d.Record()
	assert.Error(t, err)

	d = Document{ID: bson.Binary{Subtype: 0x04, Data: []byte{1, 2, 3}}}
	_, err = d.Record()
	assert.Error(t, err)
}

func TestBinaryIDCopiesBytes(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440002")
	bin := BinaryID(id)
	bin.Data[0] = 0xFF

	assert.Equal(t, byte(0x55), id[0])
}

func TestIDFilter(t *testing.T) {
	ids := IDs(Products())
	filter := IDFilter(ids)

	require.Len(t, filter, 1)
	assert.Equal(t, "_id", filter[0].Key)

	inner, ok := filter[0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, "$in", inner[0].Key)

	values, ok := inner[0].Value.(bson.A)
	require.True(t, ok)
	require.Len(t, values, 3)
	assert.Equal(t, BinaryID(ids[2]), values[2])
}

func TestCanonical(t *testing.T) {
	r := Products()[0]
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440002|Laptop|999.99|Electronics", r.Canonical())
}

func TestValidate(t *testing.T) {
	laptop := Products()[0]

	tests := []struct {
		name    string
		records []Record
		field   string
	}{
		{"empty set is valid", []Record{}, ""},
		{"nil id", []Record{{Name: "x", Category: "y"}}, "id"},
		{"duplicate id", []Record{laptop, laptop}, "duplicate id"},
		{"blank name", []Record{{ID: laptop.ID, Name: "  ", Category: "y"}}, "name"},
		{"blank category", []Record{{ID: laptop.ID, Name: "x"}}, "category"},
		{"negative price", []Record{{ID: laptop.ID, Name: "x", Category: "y", Price: -1}}, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.records)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs ValidationErrors
			assert.ErrorAs(t, err, &verrs)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestFromConfig(t *testing.T) {
	records, err := FromConfig([]config.RecordConfig{
		{ID: "550e8400-e29b-41d4-a716-446655440010", Name: "Keyboard", Price: 89.5, Category: "Accessories"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Keyboard", records[0].Name)

	_, err = FromConfig([]config.RecordConfig{{ID: "bogus"}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "records[0]")
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string]string{
		"fixture.yaml": `
records:
  - id: 550e8400-e29b-41d4-a716-446655440010
    name: Keyboard
    price: 89.5
    category: Accessories
`,
		"fixture.json": `{"records": [{"id": "550e8400-e29b-41d4-a716-446655440010", "name": "Keyboard", "price": 89.5, "category": "Accessories"}]}`,
		"fixture.toml": `
[[records]]
id = "550e8400-e29b-41d4-a716-446655440010"
name = "Keyboard"
price = 89.5
category = "Accessories"
`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmpDir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			records, err := LoadFile(path)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "550e8400-e29b-41d4-a716-446655440010", records[0].ID.String())
			assert.Equal(t, 89.5, records[0].Price)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	records, err := Resolve(&config.SeedSetConfig{Fixture: "products"})
	require.NoError(t, err)
	assert.Len(t, records, 3)

	records, err = Resolve(&config.SeedSetConfig{
		Records: []config.RecordConfig{{ID: "550e8400-e29b-41d4-a716-446655440010", Name: "Keyboard", Category: "Accessories"}},
	})
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = Resolve(&config.SeedSetConfig{})
	require.NoError(t, err)
	assert.Empty(t, records)
}
