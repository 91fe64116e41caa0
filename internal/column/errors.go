package column

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

var (
	// ErrTypeMismatch is returned when a requested column is absent or is not string-typed.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrAllocation is returned when list storage cannot grow to the required capacity.
	ErrAllocation = errors.New("allocation failed")

	// ErrInvalidDelimiter is returned for a delimiter that is not a valid rune.
	ErrInvalidDelimiter = errors.New("invalid delimiter")
)

// TypeMismatchError reports a column that cannot be read as text.
type TypeMismatchError struct {
	Column string
	// Type is nil when the column does not exist.
	Type arrow.DataType
}

func (e *TypeMismatchError) Error() string {
	if e.Type == nil {
		return fmt.Sprintf("column %q not found", e.Column)
	}
	return fmt.Sprintf("column %q is %s, not a string column", e.Column, e.Type)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// AllocationError reports an allocation that would exceed the allocator's limit.
type AllocationError struct {
	Requested int
	InUse     int
	Limit     int
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocating %d bytes with %d in use exceeds limit of %d bytes",
		e.Requested, e.InUse, e.Limit)
}

// Is reports whether target is ErrAllocation.
func (e *AllocationError) Is(target error) bool {
	return target == ErrAllocation
}
