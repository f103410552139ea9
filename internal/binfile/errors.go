package binfile

import (
	"fmt"

	"github.com/pkg/errors"
)

// Common errors.
var (
	ErrNotAccessible = errors.New("file not found or not accessible")
	ErrTruncated     = errors.New("file truncated")
	ErrCorrupt       = errors.New("corrupt array structure")
	ErrShapeMismatch = errors.New("data length does not match sizes")
	ErrNegativeDim   = errors.New("negative dimension")
	ErrOutOfRange    = errors.New("value does not fit in int32")
	ErrNilArray      = errors.New("nil array")
)

// ErrorKind tells callers which recovery applies to a failed Read or Write.
type ErrorKind int

const (
	// KindIO covers files that cannot be opened and failed physical reads or writes.
	KindIO ErrorKind = iota + 1
	// KindFormat covers files holding fewer or inconsistent bytes than their structure declares.
	KindFormat
	// KindInvalid covers in-memory archives that break the sizes/data invariant.
	KindInvalid
)

// String returns a human-readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindFormat:
		return "format"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

const (
	opLoad  = "loading"
	opWrite = "writing to"
)

// Error is returned by every top-level codec operation.
// It carries the file path so that a failure can be traced without a stack.
type Error struct {
	Op   string    // "loading" or "writing to"
	Path string    // File path, empty for stream operations
	Kind ErrorKind // Failure class
	Err  error     // Underlying cause
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("error %s stream: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("error %s the file %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError describes an array that breaks the sizes/data invariant.
type ValidationError struct {
	Key     string // Archive key, empty when validating a detached array
	Err     error  // One of the sentinel errors
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("array %q: %v: %s", e.Key, e.Err, e.Details)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Details)
}

// Unwrap returns the sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newError(op, path string, kind ErrorKind, err error) error {
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

// classify picks the kind of a decode failure from its cause chain.
func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrTruncated), errors.Is(err, ErrCorrupt):
		return KindFormat
	case errors.Is(err, ErrShapeMismatch), errors.Is(err, ErrNegativeDim),
		errors.Is(err, ErrOutOfRange), errors.Is(err, ErrNilArray):
		return KindInvalid
	default:
		return KindIO
	}
}

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsIOError reports whether err is a codec error caused by file access or physical I/O.
func IsIOError(err error) bool {
	return kindOf(err) == KindIO
}

// IsFormatError reports whether err is a codec error caused by a truncated or corrupt file.
func IsFormatError(err error) bool {
	return kindOf(err) == KindFormat
}

// IsInvalidError reports whether err is a codec error caused by an inconsistent in-memory archive.
func IsInvalidError(err error) bool {
	return kindOf(err) == KindInvalid
}
