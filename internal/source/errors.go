package source

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned when the input cannot be opened or parsed.
var ErrUnavailable = errors.New("source unavailable")

// SourceUnavailableError wraps the failure that made a source unreadable.
type SourceUnavailableError struct {
	Path string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("reading input: %v", e.Err)
	}
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// Is reports whether target is ErrUnavailable.
func (e *SourceUnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}
