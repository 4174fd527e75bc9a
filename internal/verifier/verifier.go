// Package verifier checks that a seeded collection holds the expected records.
package verifier

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/dbsmedya/goseed/internal/logger"
	"github.com/dbsmedya/goseed/internal/record"
	"github.com/dbsmedya/goseed/internal/seeder"
)

// VerificationMethod defines how to verify a seed run.
type VerificationMethod string

const (
	// MethodCount counts documents with the seeded ids (fast)
	MethodCount VerificationMethod = "count"
	// MethodSHA256 reads the documents back and compares a SHA256 over their fields
	MethodSHA256 VerificationMethod = "sha256"
	// MethodSkip skips verification entirely
	MethodSkip VerificationMethod = "skip"
)

// ErrVerificationFailed is returned when the collection does not match the records.
var ErrVerificationFailed = errors.New("verification failed")

const defaultChunkSize = 1000

// VerifyResult holds the outcome of one verification.
type VerifyResult struct {
	Method        VerificationMethod
	ExpectedCount int64
	ActualCount   int64
	ExpectedHash  string
	ActualHash    string
	Match         bool
	ErrorMessage  string
}

// Verifier compares a collection against the records that were seeded into it.
type Verifier struct {
	method    VerificationMethod
	chunkSize int
	logger    *logger.Logger
}

// NewVerifier creates a verifier. An empty method defaults to count.
func NewVerifier(method VerificationMethod, log *logger.Logger) (*Verifier, error) {
	if method == "" {
		method = MethodCount
	}
	switch method {
	case MethodCount, MethodSHA256, MethodSkip:
	default:
		return nil, fmt.Errorf("unsupported verification method: %s", method)
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &Verifier{
		method:    method,
		chunkSize: defaultChunkSize,
		logger:    log,
	}, nil
}

// Verify checks coll against records. A mismatch returns the result together
// with an error wrapping ErrVerificationFailed.
func (v *Verifier) Verify(ctx context.Context, coll seeder.Collection, records []record.Record) (*VerifyResult, error) {
	if v.method == MethodSkip {
		v.logger.Info("Verification SKIPPED (method=skip)")
		return &VerifyResult{Method: MethodSkip, Match: true}, nil
	}

	if len(records) == 0 {
		return &VerifyResult{Method: v.method, Match: true}, nil
	}

	var (
		result *VerifyResult
		err    error
	)
	switch v.method {
	case MethodCount:
		result, err = v.verifyByCount(ctx, coll, records)
	case MethodSHA256:
		result, err = v.verifyBySHA256(ctx, coll, records)
	}
	if err != nil {
		return nil, err
	}

	if !result.Match {
		v.logger.Errorw("Verification FAILED",
			"method", v.method,
			"detail", result.ErrorMessage,
		)
		return result, fmt.Errorf("%w: %s", ErrVerificationFailed, result.ErrorMessage)
	}

	v.logger.Infow("Verification PASSED",
		"method", v.method,
		"documents", result.ActualCount,
	)
	return result, nil
}

// verifyByCount counts the documents whose _id is one of the seeded ids.
func (v *Verifier) verifyByCount(ctx context.Context, coll seeder.Collection, records []record.Record) (*VerifyResult, error) {
	ids := record.IDs(records)
	var actual int64

	for i := 0; i < len(ids); i += v.chunkSize {
		end := min(i+v.chunkSize, len(ids))

		n, err := coll.CountDocuments(ctx, record.IDFilter(ids[i:end]))
		if err != nil {
			return nil, fmt.Errorf("failed to count documents: %w", err)
		}
		actual += n
	}

	result := &VerifyResult{
		Method:        MethodCount,
		ExpectedCount: int64(len(records)),
		ActualCount:   actual,
		Match:         actual == int64(len(records)),
	}
	if !result.Match {
		result.ErrorMessage = fmt.Sprintf("count mismatch: expected=%d, actual=%d", result.ExpectedCount, actual)
	}
	return result, nil
}

// verifyBySHA256 reads the seeded documents back and hashes their fields.
func (v *Verifier) verifyBySHA256(ctx context.Context, coll seeder.Collection, records []record.Record) (*VerifyResult, error) {
	ids := record.IDs(records)
	var stored []record.Record

	for i := 0; i < len(ids); i += v.chunkSize {
		end := min(i+v.chunkSize, len(ids))

		docs, err := coll.FindDocuments(ctx, record.IDFilter(ids[i:end]))
		if err != nil {
			return nil, fmt.Errorf("failed to read documents: %w", err)
		}
		for _, doc := range docs {
			r, err := doc.Record()
			if err != nil {
				return nil, fmt.Errorf("failed to decode document: %w", err)
			}
			stored = append(stored, r)
		}
	}

	result := &VerifyResult{
		Method:        MethodSHA256,
		ExpectedCount: int64(len(records)),
		ActualCount:   int64(len(stored)),
		ExpectedHash:  Hash(records),
		ActualHash:    Hash(stored),
	}
	result.Match = result.ExpectedCount == result.ActualCount && result.ExpectedHash == result.ActualHash

	if !result.Match {
		if result.ExpectedCount != result.ActualCount {
			result.ErrorMessage = fmt.Sprintf("count mismatch: expected=%d, actual=%d", result.ExpectedCount, result.ActualCount)
		} else {
			result.ErrorMessage = fmt.Sprintf("hash mismatch: expected=%s, actual=%s%s",
				result.ExpectedHash[:16], result.ActualHash[:16], firstDifference(records, stored))
		}
	}
	return result, nil
}

// Hash returns a hex SHA256 over the records' canonical lines, ordered by id
// so that input order does not matter.
func Hash(records []record.Record) string {
	sorted := sortedByID(records)

	hasher := sha256.New()
	for _, r := range sorted {
		hasher.Write([]byte(r.Canonical()))
		hasher.Write([]byte("\n"))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

func sortedByID(records []record.Record) []record.Record {
	sorted := make([]record.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].ID[:], sorted[j].ID[:]) < 0
	})
	return sorted
}

// firstDifference names the first record whose stored form differs.
func firstDifference(expected, actual []record.Record) string {
	e, a := sortedByID(expected), sortedByID(actual)
	for i := range e {
		if i >= len(a) {
			break
		}
		if e[i] != a[i] {
			return fmt.Sprintf(" (first difference at %s)", e[i].ID)
		}
	}
	return ""
}

// SetChunkSize sets how many ids go into one $in filter.
func (v *Verifier) SetChunkSize(size int) {
	if size > 0 {
		v.chunkSize = size
	}
}

// GetMethod returns the configured verification method.
func (v *Verifier) GetMethod() VerificationMethod {
	return v.method
}
