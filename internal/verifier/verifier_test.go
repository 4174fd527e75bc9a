package verifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/goseed/internal/logger"
	"github.com/dbsmedya/goseed/internal/record"
	"github.com/dbsmedya/goseed/internal/seeder"
	"github.com/dbsmedya/goseed/internal/seeder/seedertest"
)

func seededCollection(t *testing.T, records []record.Record) *seedertest.Collection {
	t.Helper()
	store := seedertest.NewStore()
	_, err := seeder.Seed(context.Background(), store, "productdb", "products", records)
	require.NoError(t, err)
	return store.Collection("productdb", "products")
}

func TestNewVerifier(t *testing.T) {
	v, err := NewVerifier("", logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, MethodCount, v.GetMethod())

	v, err = NewVerifier(MethodSHA256, nil)
	require.NoError(t, err)
	assert.Equal(t, MethodSHA256, v.GetMethod())

	_, err = NewVerifier("md5", logger.NewNop())
	assert.Error(t, err)
}

func TestVerifyCountPasses(t *testing.T) {
	products := record.Products()
	coll := seededCollection(t, products)

	v, err := NewVerifier(MethodCount, logger.NewNop())
	require.NoError(t, err)

	result, err := v.Verify(context.Background(), coll, products)
	require.NoError(t, err)
	assert.True(t, result.Match)
	assert.Equal(t, int64(3), result.ExpectedCount)
	assert.Equal(t, int64(3), result.ActualCount)
}

func TestVerifyCountMismatch(t *testing.T) {
	products := record.Products()
	coll := seededCollection(t, products[:2])

	v, err := NewVerifier(MethodCount, logger.NewNop())
	require.NoError(t, err)

	result, err := v.Verify(context.Background(), coll, products)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVerificationFailed))
	assert.False(t, result.Match)
	assert.Equal(t, int64(2), result.ActualCount)
	assert.Contains(t, result.ErrorMessage, "count mismatch: expected=3, actual=2")
}

func TestVerifyCountChunked(t *testing.T) {
	products := record.Products()
	coll := seededCollection(t, products)

	v, err := NewVerifier(MethodCount, logger.NewNop())
	require.NoError(t, err)
	v.SetChunkSize(2)
	v.SetChunkSize(0) // ignored

	result, err := v.Verify(context.Background(), coll, products)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.ActualCount)
}

func TestVerifySHA256Passes(t *testing.T) {
	products := record.Products()
	coll := seededCollection(t, products)

	v, err := NewVerifier(MethodSHA256, logger.NewNop())
	require.NoError(t, err)

	result, err := v.Verify(context.Background(), coll, products)
	require.NoError(t, err)
	assert.True(t, result.Match)
	assert.Equal(t, result.ExpectedHash, result.ActualHash)
	assert.Len(t, result.ActualHash, 64)
}

func TestVerifySHA256DetectsChangedField(t *testing.T) {
	products := record.Products()
	coll := seededCollection(t, products)

	// Same id, different price
	changed := products[1]
	changed.Price = 59.99
	coll.Put(changed.Document())

	v, err := NewVerifier(MethodSHA256, logger.NewNop())
	require.NoError(t, err)

	result, err := v.Verify(context.Background(), coll, products)
	require.ErrorIs(t, err, ErrVerificationFailed)
	assert.False(t, result.Match)
	assert.Contains(t, result.ErrorMessage, "hash mismatch")
	assert.Contains(t, result.ErrorMessage, products[1].ID.String())
}

func TestVerifySHA256CountMismatch(t *testing.T) {
	products := record.Products()
	coll := seededCollection(t, products[1:])

	v, err := NewVerifier(MethodSHA256, logger.NewNop())
	require.NoError(t, err)

	result, err := v.Verify(context.Background(), coll, products)
	require.ErrorIs(t, err, ErrVerificationFailed)
	assert.Contains(t, result.ErrorMessage, "count mismatch")
}

func TestVerifySkip(t *testing.T) {
	v, err := NewVerifier(MethodSkip, logger.NewNop())
	require.NoError(t, err)

	// A nil collection proves nothing is read
	result, err := v.Verify(context.Background(), nil, record.Products())
	require.NoError(t, err)
	assert.Equal(t, MethodSkip, result.Method)
	assert.True(t, result.Match)
}

func TestVerifyEmptyRecords(t *testing.T) {
	v, err := NewVerifier(MethodSHA256, logger.NewNop())
	require.NoError(t, err)

	result, err := v.Verify(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.True(t, result.Match)
}

func TestVerifyReadError(t *testing.T) {
	products := record.Products()
	coll := seededCollection(t, products)
	coll.ReadErr = errors.New("not primary")

	for _, method := range []VerificationMethod{MethodCount, MethodSHA256} {
		t.Run(string(method), func(t *testing.T) {
			v, err := NewVerifier(method, logger.NewNop())
			require.NoError(t, err)

			_, err = v.Verify(context.Background(), coll, products)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not primary")
			assert.False(t, errors.Is(err, ErrVerificationFailed))
		})
	}
}

func TestHashIsOrderIndependent(t *testing.T) {
	products := record.Products()
	reversed := []record.Record{products[2], products[1], products[0]}

	assert.Equal(t, Hash(products), Hash(reversed))
	assert.NotEqual(t, Hash(products), Hash(products[:2]))
}
