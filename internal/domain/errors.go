package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrCorruptRecord wraps stored data that fails validation on read.
	ErrCorruptRecord = errors.New("corrupt record")
)

// ValidationError rejects bad input. Callers must not proceed with the value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PartialDataError marks a property missing data one rule needs. Only that rule is skipped.
type PartialDataError struct {
	PropertyID int64  `json:"property_id"`
	Field      string `json:"field"`
	Reason     string `json:"reason"`
}

func (e *PartialDataError) Error() string {
	return fmt.Sprintf("property %d: %s %s", e.PropertyID, e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
