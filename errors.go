package pagedlist

import (
	"errors"
	"fmt"
)

// =============================================================================
// Sentinel Errors
// =============================================================================

var (
	// ErrInvalidPageNumber is returned when a page number below 1 is requested.
	ErrInvalidPageNumber = errors.New("page number must be 1 or greater")

	// ErrInvalidPageSize is returned when a page size below 1 is requested.
	ErrInvalidPageSize = errors.New("page size must be 1 or greater")

	// ErrInvalidTotalItemCount is returned when an externally supplied total is negative.
	ErrInvalidTotalItemCount = errors.New("total item count must not be negative")

	// ErrSubsetTooLarge is returned when a materialized subset holds more items
	// than fit on a single page.
	ErrSubsetTooLarge = errors.New("subset exceeds page size")

	// ErrMissingMetadata is returned when a serialized list carries no metadata.
	ErrMissingMetadata = errors.New("metadata is required")
)

// Error codes returned by ErrorCode.
const (
	CodePageNumberTooSmall = "page_number_too_small"
	CodePageSizeTooSmall   = "page_size_too_small"
	CodeTotalCountNegative = "total_item_count_negative"
	CodeSubsetTooLarge     = "subset_too_large"
	CodeMissingMetadata    = "missing_metadata"
	CodeSource             = "source"
)

// =============================================================================
// Structured Error Type
// =============================================================================

// Error wraps a pagination failure with the operation and offending value.
// It supports errors.Is against the sentinels above.
type Error struct {
	// Op is the constructor that failed (e.g. "pagedlist.New").
	Op string

	// Value is the rejected input.
	Value int

	// Err is the sentinel or, for source failures, the source's error.
	Err error
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, ErrSubsetTooLarge):
		return fmt.Sprintf("%s: %v (got %d items)", e.Op, e.Err, e.Value)
	case isValidationErr(e.Err):
		return fmt.Sprintf("%s: %v (got %d)", e.Op, e.Err, e.Value)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode returns a machine-readable code for err, or "" when err did not
// originate in this package.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidPageNumber):
		return CodePageNumberTooSmall
	case errors.Is(err, ErrInvalidPageSize):
		return CodePageSizeTooSmall
	case errors.Is(err, ErrInvalidTotalItemCount):
		return CodeTotalCountNegative
	case errors.Is(err, ErrSubsetTooLarge):
		return CodeSubsetTooLarge
	case errors.Is(err, ErrMissingMetadata):
		return CodeMissingMetadata
	}
	var e *Error
	if errors.As(err, &e) {
		return CodeSource
	}
	return ""
}

// IsValidation reports whether err is an input validation failure, as opposed
// to a failure of the underlying source.
func IsValidation(err error) bool {
	return isValidationErr(err) || errors.Is(err, ErrSubsetTooLarge)
}

func isValidationErr(err error) bool {
	return errors.Is(err, ErrInvalidPageNumber) ||
		errors.Is(err, ErrInvalidPageSize) ||
		errors.Is(err, ErrInvalidTotalItemCount)
}

func validate(op string, pageNumber, pageSize int) error {
	if pageNumber < 1 {
		return &Error{Op: op, Value: pageNumber, Err: ErrInvalidPageNumber}
	}
	if pageSize < 1 {
		return &Error{Op: op, Value: pageSize, Err: ErrInvalidPageSize}
	}
	return nil
}

func validateTotal(op string, total int) error {
	if total < 0 {
		return &Error{Op: op, Value: total, Err: ErrInvalidTotalItemCount}
	}
	return nil
}
