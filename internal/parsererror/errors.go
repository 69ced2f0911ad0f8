// Package parsererror defines the typed errors and sentinels shared by the
// statement parsers, the categorizer and the transports.
package parsererror

import (
	"errors"
	"fmt"
)

// Row-level sentinels. A row carrying one of these is dropped and the batch
// continues.
var (
	ErrRowTooShort     = errors.New("row has fewer columns than the mapping requires")
	ErrRowInvalidDate  = errors.New("row date is missing or unparsable")
	ErrRowMissingValue = errors.New("no value, debit or credit column")
)

// Document-level sentinels. These are fatal for the file.
var (
	ErrUnreadableDocument = errors.New("document could not be read")
	ErrMalformedDocument  = errors.New("document is malformed")
	ErrNoStatement        = errors.New("document has no statement section")
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file exceeds the size limit")
)

// RowError is a row-level defect in tabular input. Row is the 1-based line
// number in the file, header included.
type RowError struct {
	Row    int
	Detail string
	Err    error
}

func (e *RowError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("row %d: %v: %s", e.Row, e.Err, e.Detail)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// DocumentError is a fatal defect of a whole input file.
type DocumentError struct {
	Source string
	Format string
	Err    error
}

func (e *DocumentError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s document: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("%s document '%s': %v", e.Format, e.Source, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// IsDocumentError reports whether err is, or wraps, a DocumentError.
func IsDocumentError(err error) bool {
	var de *DocumentError
	return errors.As(err, &de)
}

// ValidationError represents invalid configuration or input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// CategorizationError represents a failed model classification. It is logged
// and converted into the fallback annotation, never returned to callers of
// the classifier.
type CategorizationError struct {
	Provider string
	Stage    string
	Err      error
}

func (e *CategorizationError) Error() string {
	return fmt.Sprintf("categorization failed at %s using %s: %v",
		e.Stage, e.Provider, e.Err)
}

func (e *CategorizationError) Unwrap() error {
	return e.Err
}
