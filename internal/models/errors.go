package models

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound covers absent rows, rows owned by another hub and soft-deleted
// rows alike.
var ErrNotFound = errors.New("not found")

// ValidationError collects per-field form errors.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make(map[string]string)}
}

// Add records msg for field unless the field already has an error.
func (e *ValidationError) Add(field, msg string) {
	if _, exists := e.Errors[field]; !exists {
		e.Errors[field] = msg
	}
}

func (e *ValidationError) Has(field string) bool {
	_, ok := e.Errors[field]
	return ok
}

// OrNil returns nil when no field error was recorded.
func (e *ValidationError) OrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e.Errors[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err carries field errors.
func IsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
