// Package apperrors defines the error taxonomy shared by the chart engine
// adapters, the dasha resolver and the presentation edges.
//
// Every kind propagates synchronously to the caller. Nothing is retried.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrDivisionNotFound reports that a requested divisional chart is absent
// from the current result. It is a normal outcome, used only at the edges
// (HTTP, CLI) to report the selector's absent value.
var ErrDivisionNotFound = errors.New("divisional chart not found")

// ValidationError reports malformed or missing user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// EngineError reports that the external chart engine failed or returned
// output that could not be used.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("chart engine %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// NewEngineError wraps err as an EngineError raised during op.
func NewEngineError(op string, err error) error {
	return &EngineError{Op: op, Err: err}
}

// IntegrityError reports a period or chart list that violates the
// parent-reference, uniqueness or tiling invariants.
type IntegrityError struct {
	Problems []string
}

func (e *IntegrityError) Error() string {
	switch len(e.Problems) {
	case 0:
		return "integrity violation"
	case 1:
		return "integrity violation: " + e.Problems[0]
	default:
		return fmt.Sprintf("integrity violation: %s (and %d more)", e.Problems[0], len(e.Problems)-1)
	}
}

// NewIntegrityError returns an IntegrityError with a single formatted problem.
func NewIntegrityError(format string, args ...any) *IntegrityError {
	return &IntegrityError{Problems: []string{fmt.Sprintf(format, args...)}}
}

// Integrity folds a list of validator errors into one IntegrityError.
// It returns nil when errs is empty.
func Integrity(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	ie := &IntegrityError{Problems: make([]string, 0, len(errs))}
	for _, err := range errs {
		ie.Problems = append(ie.Problems, err.Error())
	}
	return ie
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsEngine reports whether err is or wraps an EngineError.
func IsEngine(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee)
}

// IsIntegrity reports whether err is or wraps an IntegrityError.
func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}
