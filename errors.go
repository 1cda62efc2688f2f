package ldconsole

import (
	"errors"
	"fmt"
)

// Common errors returned by ldconsole operations
var (
	// ErrEncoding indicates the manager output is not valid GBK text
	ErrEncoding = errors.New("ldconsole: encoding error")

	// ErrMalformedRecord indicates a listing line has too few fields
	ErrMalformedRecord = errors.New("ldconsole: malformed record")

	// ErrInstanceNotFound indicates no listed instance matched a lookup
	ErrInstanceNotFound = errors.New("ldconsole: instance not found")

	// ErrWatchClosed indicates a watch ended before the awaited state was seen
	ErrWatchClosed = errors.New("ldconsole: watch closed")
)

// OpError represents a failure to run the manager executable.
// It wraps the underlying OS error for inspection with errors.Is and errors.As.
type OpError struct {
	// Op is the operation that failed
	Op Operation
	// Path is the executable path involved in the operation
	Path string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *OpError) Error() string {
	return fmt.Sprintf("ldconsole %s %q: %v", e.Op.String(), e.Path, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *OpError) Unwrap() error {
	return e.Err
}

// RecordError reports a listing line that could not be mapped to an Instance
type RecordError struct {
	// Line is the 1-based position of the line among non-empty lines
	Line int
	// Fields is the number of comma-separated fields found
	Fields int
}

// Error returns a formatted error message
func (e *RecordError) Error() string {
	return fmt.Sprintf("ldconsole: line %d: %d fields, want at least %d", e.Line, e.Fields, requiredFieldsLen)
}

// Unwrap returns ErrMalformedRecord
func (e *RecordError) Unwrap() error {
	return ErrMalformedRecord
}
