package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrDatasetNotFound is returned when the catalog path does not exist.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrEmptyCatalog is returned when the catalog yields zero records.
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrInvalidArgument marks input rejected before any provider call.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrProvider marks a failed embedding, completion or vector-store call.
	ErrProvider = errors.New("provider call failed")

	// ErrMalformedMetadata marks stored metadata that could not be decoded.
	ErrMalformedMetadata = errors.New("malformed metadata")

	// ErrNoSelection is returned when no candidate could be chosen.
	ErrNoSelection = errors.New("no selection")

	// ErrTitleNotFound is returned by title resolution when nothing matches.
	ErrTitleNotFound = errors.New("title not found")

	// ErrSummaryNotFound is returned when a title has no catalog record.
	ErrSummaryNotFound = errors.New("summary not found")
)

// ProviderError wraps a failure of a remote dependency.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes both ErrProvider and the underlying cause to errors.Is.
func (e *ProviderError) Unwrap() []error {
	return []error{ErrProvider, e.Err}
}

// NewProviderError returns nil when err is nil.
func NewProviderError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Op: op, Err: err}
}

// InvalidArgument builds an error that matches ErrInvalidArgument.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IsTransient reports whether err is a timeout or cancellation that a caller
// may retry.
func IsTransient(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
