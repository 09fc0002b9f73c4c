package stream

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for non-positive page or chunk sizes and
// for fields that cannot be reduced.
var ErrInvalidArgument = errors.New("stream: invalid argument")

// ErrSourceUnavailable matches every *SourceError.
var ErrSourceUnavailable = errors.New("stream: source unavailable")

// SourceError is returned when the row source cannot be opened or a query
// against it fails.
type SourceError struct {
	Op  string
	Err error
}

func (e *SourceError) Error() string { return fmt.Sprintf("stream: %s: %v", e.Op, e.Err) }

func (e *SourceError) Unwrap() error { return e.Err }

// Is reports ErrSourceUnavailable as a match so callers need not know the op.
func (e *SourceError) Is(target error) bool { return target == ErrSourceUnavailable }

// sourceErr wraps err as a *SourceError unless it already is one.
func sourceErr(op string, err error) error {
	var se *SourceError
	if errors.As(err, &se) {
		return err
	}
	return &SourceError{Op: op, Err: err}
}

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
