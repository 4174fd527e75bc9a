package record

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// ValidationError describes one malformed record.
type ValidationError struct {
	Index   int
	ID      uuid.UUID
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("records[%d] (%s) %s: %s", e.Index, e.ID, e.Field, e.Message)
}

// ValidationErrors is a collection of record validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid records:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks a record set before it is sent to the database.
// Ids must be unique and non-nil; name and category non-blank; price finite and non-negative.
// An empty set is valid.
func Validate(records []Record) error {
	var errors ValidationErrors
	seen := make(map[uuid.UUID]int, len(records))

	for i, r := range records {
		if r.ID == uuid.Nil {
			errors = append(errors, ValidationError{Index: i, ID: r.ID, Field: "id", Message: "id must not be the nil uuid"})
		} else if first, dup := seen[r.ID]; dup {
			errors = append(errors, ValidationError{
				Index:   i,
				ID:      r.ID,
				Field:   "id",
				Message: fmt.Sprintf("duplicate id, first used by records[%d]", first),
			})
		} else {
			seen[r.ID] = i
		}

		if strings.TrimSpace(r.Name) == "" {
			errors = append(errors, ValidationError{Index: i, ID: r.ID, Field: "name", Message: "name is required"})
		}

		if strings.TrimSpace(r.Category) == "" {
			errors = append(errors, ValidationError{Index: i, ID: r.ID, Field: "category", Message: "category is required"})
		}

		if math.IsNaN(r.Price) || math.IsInf(r.Price, 0) {
			errors = append(errors, ValidationError{Index: i, ID: r.ID, Field: "price", Message: "price must be a finite number"})
		} else if r.Price < 0 {
			errors = append(errors, ValidationError{Index: i, ID: r.ID, Field: "price", Message: "price cannot be negative"})
		}
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}
