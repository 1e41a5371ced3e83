package engine

import (
	"errors"
	"fmt"
)

// ExecError represents an error detected while compiling or running a
// query.
//
// Execution errors include:
//   - Compile failures: malformed algebra, unknown node types
//   - Source failures: the triples source reported an I/O error
//   - Cancellation: the execution context was cancelled
//
// Expression evaluation errors are not ExecErrors; per SPARQL they make
// the affected filter reject the row or leave the affected slot unbound.
type ExecError struct {
	// Code identifies the error category.
	Code ExecErrorCode

	// Message is a human-readable description.
	Message string

	// Operator names the rowsource that detected the error.
	Operator string

	// Err is the underlying cause, if any.
	Err error
}

// ExecErrorCode categorizes execution errors.
type ExecErrorCode string

const (
	// ErrCodeCompile indicates the algebra tree could not be compiled.
	ErrCodeCompile ExecErrorCode = "COMPILE_FAILED"

	// ErrCodeSource indicates the triples source failed.
	ErrCodeSource ExecErrorCode = "SOURCE_FAILED"

	// ErrCodeCanceled indicates the execution context was cancelled.
	ErrCodeCanceled ExecErrorCode = "CANCELED"
)

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.Operator != "" {
		return fmt.Sprintf("%s: %s (operator=%s)", e.Code, e.Message, e.Operator)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ExecError) Unwrap() error { return e.Err }

// IsSourceError returns true if the error came from the triples source.
// Uses errors.As to handle wrapped errors.
func IsSourceError(err error) bool {
	var ee *ExecError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeSource
	}
	return false
}

// IsCanceled returns true if the error reports context cancellation.
func IsCanceled(err error) bool {
	var ee *ExecError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeCanceled
	}
	return false
}

// NewCompileError creates an ExecError for a compilation failure.
func NewCompileError(msg string, err error) *ExecError {
	return &ExecError{Code: ErrCodeCompile, Message: msg, Err: err}
}

func sourceError(operator string, err error) *ExecError {
	return &ExecError{
		Code:     ErrCodeSource,
		Message:  "triples source failed",
		Operator: operator,
		Err:      err,
	}
}

func canceledError(operator string, err error) *ExecError {
	return &ExecError{
		Code:     ErrCodeCanceled,
		Message:  "execution cancelled",
		Operator: operator,
		Err:      err,
	}
}
