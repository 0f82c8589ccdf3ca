package explorer

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when an operation is rejected before touching the filesystem.
var ErrInvalidInput = errors.New("invalid input")

// invalidf wraps ErrInvalidInput with a formatted reason.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// FileAccessError reports a file that could not be opened or read.
type FileAccessError struct {
	// Path is the file that failed.
	Path string
	// Err is the underlying error.
	Err error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("accessing file %q: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}
