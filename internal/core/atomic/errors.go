package atomic

import (
	"errors"
	"fmt"

	"github.com/babarot/trashcan/internal/core/types"
)

var (
	// ErrCrossDeviceMove indicates a move operation across different devices
	ErrCrossDeviceMove = errors.New("cross-device move operation")

	// ErrTemporaryFileError indicates an error with temporary file operations
	ErrTemporaryFileError = errors.New("temporary file operation failed")
)

// MoveError represents an error that occurred during a move operation
type MoveError struct {
	Op  string // Operation being performed
	Src string // Source path
	Dst string // Destination path
	Err error  // Underlying error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move operation failed: %s from %q to %q: %v", e.Op, e.Src, e.Dst, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// NewMoveError creates a new MoveError
func NewMoveError(op, src, dst string, err error) error {
	return &MoveError{
		Op:  op,
		Src: src,
		Dst: dst,
		Err: err,
	}
}

// CleanupError represents an error that occurred during cleanup
type CleanupError struct {
	Path string // Path being cleaned up
	Err  error  // Underlying error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("cleanup failed for %q: %v", e.Path, e.Err)
}

func (e *CleanupError) Unwrap() error {
	return e.Err
}

// NewCleanupError creates a new CleanupError
func NewCleanupError(path string, err error) error {
	return &CleanupError{
		Path: path,
		Err:  err,
	}
}

// ioFailure tags an OS error as types.ErrIOFailure while keeping it inspectable
func ioFailure(err error) error {
	return fmt.Errorf("%w: %w", types.ErrIOFailure, err)
}

// IsCrossDevice checks if the error indicates a cross-device operation
func IsCrossDevice(err error) bool {
	return errors.Is(err, ErrCrossDeviceMove)
}
