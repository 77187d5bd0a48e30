package types

import "errors"

// Error taxonomy shared by the filesystem gateway, the record stores and the
// lifecycle manager. Every error returned by those layers wraps one of these.
var (
	// ErrNotFound is returned when a source path or an identifier does not exist
	ErrNotFound = errors.New("not found")

	// ErrDestinationConflict is returned when the target of a move is already occupied
	ErrDestinationConflict = errors.New("destination already exists")

	// ErrIOFailure is returned when the underlying move or remove failed for OS reasons
	ErrIOFailure = errors.New("i/o failure")

	// ErrStoreUnavailable is returned when the record store could not be opened or written
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrInconsistent is returned when a live record points at a missing payload
	ErrInconsistent = errors.New("trash entry has no backing file")

	// ErrInvalidPath is returned for paths that must never be trashed
	ErrInvalidPath = errors.New("invalid path specified")
)

// Error wraps a taxonomy error with the operation and path that caused it
type Error struct {
	Op   string // Operation that failed (e.g., "delete", "restore", "purge")
	Path string // Path of the file that caused the error
	Err  error  // The underlying error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error
func NewError(op, path string, err error) error {
	return &Error{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// IsNotFound returns true if the error is ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDestinationConflict returns true if the error is ErrDestinationConflict
func IsDestinationConflict(err error) bool {
	return errors.Is(err, ErrDestinationConflict)
}

// IsIOFailure returns true if the error is ErrIOFailure
func IsIOFailure(err error) bool {
	return errors.Is(err, ErrIOFailure)
}

// IsStoreUnavailable returns true if the error is ErrStoreUnavailable
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsInconsistent returns true if the error is ErrInconsistent
func IsInconsistent(err error) bool {
	return errors.Is(err, ErrInconsistent)
}
