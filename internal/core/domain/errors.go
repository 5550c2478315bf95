package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent verification failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown extraction strategy or document type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrRetrieval indicates the document batch could not be obtained.
	// It is fatal to a verification run.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrExtraction indicates a single document could not be turned into text.
	// The affected day is reported as unverifiable; the run continues.
	ErrExtraction = errors.New("extraction failed")

	// ErrStrategyUnavailable indicates an extraction strategy failed its capability probe.
	ErrStrategyUnavailable = errors.New("extraction strategy unavailable")

	// ErrNoPolicy indicates a date falls on a day without a goal selection rule.
	ErrNoPolicy = errors.New("no goal selection rule for day")
)

// RetrievalError describes a failure to obtain or unpack a document batch.
type RetrievalError struct {
	// Op is the step that failed (e.g. "request", "read archive").
	Op string

	// StatusCode is the HTTP status returned by the service, 0 if none.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

func (e *RetrievalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("retrieval %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("retrieval %s: %v", e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// Is reports ErrRetrieval as a match so callers can test the category.
func (e *RetrievalError) Is(target error) bool { return target == ErrRetrieval }

// ExtractionError describes a failure to extract text from one document.
type ExtractionError struct {
	// Member is the archive member name of the document.
	Member string

	// Strategy is the extraction strategy that failed.
	Strategy string

	// Err is the underlying cause.
	Err error
}

func (e *ExtractionError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("extract (%s): %v", e.Strategy, e.Err)
	}
	return fmt.Sprintf("extract %s (%s): %v", e.Member, e.Strategy, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Is reports ErrExtraction as a match so callers can test the category.
func (e *ExtractionError) Is(target error) bool { return target == ErrExtraction }
