package seeder

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Error kinds returned by Seed. Test with errors.Is.
var (
	// ErrConnection means the target could not be reached.
	ErrConnection = errors.New("connection error")
	// ErrDuplicateKey means a record's id already exists in the collection.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrValidation means a record was rejected as malformed, locally or by the server.
	ErrValidation = errors.New("validation error")
	// ErrInsert covers any other insert failure.
	ErrInsert = errors.New("insert failed")
	// ErrCanceled means the run was interrupted before the insert finished.
	ErrCanceled = errors.New("canceled")
)

// documentValidationFailure is the server code for a $jsonSchema / validator rejection.
const documentValidationFailure = 121

// SeedError carries the context of a failed seed run.
type SeedError struct {
	Kind       error
	Database   string
	Collection string
	// RecordID is the id of the record the insert stopped at, if known.
	RecordID string
	// Inserted is how many records were written before the failure.
	Inserted int
	Err      error
}

func (e *SeedError) Error() string {
	target := e.Database + "." + e.Collection
	if e.RecordID != "" {
		return fmt.Sprintf("seed %s: %v at record %s (%d inserted): %v", target, e.Kind, e.RecordID, e.Inserted, e.Err)
	}
	return fmt.Sprintf("seed %s: %v (%d inserted): %v", target, e.Kind, e.Inserted, e.Err)
}

// Unwrap exposes both the kind and the underlying driver error.
func (e *SeedError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Classify maps a driver error onto one of the error kinds.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrConnection):
		return ErrConnection
	case errors.Is(err, ErrDuplicateKey):
		return ErrDuplicateKey
	case errors.Is(err, ErrValidation):
		return ErrValidation
	case errors.Is(err, context.Canceled):
		return ErrCanceled
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateKey
	case hasErrorCode(err, documentValidationFailure):
		return ErrValidation
	case mongo.IsNetworkError(err), mongo.IsTimeout(err), errors.Is(err, mongo.ErrClientDisconnected):
		return ErrConnection
	default:
		return ErrInsert
	}
}

func hasErrorCode(err error, code int) bool {
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorCode(code)
	}
	return false
}
