package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnauthenticated is returned when an operation requires a logged
	// in caller and none was presented.
	ErrUnauthenticated = errors.New("authentication credentials were not provided")

	// ErrPermissionDenied is returned when an authenticated caller lacks
	// the right to perform a write.
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
)

// ValidationError carries field-level messages for a rejected write.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// invalid builds a single-field validation error.
func invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// requireFields returns a validation error listing every named field
// that is missing, or nil when all are present.
func requireFields(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	fields := make(map[string][]string, len(missing))
	for _, field := range missing {
		fields[field] = []string{"This field is required."}
	}
	return &ValidationError{Fields: fields}
}
