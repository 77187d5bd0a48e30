package atomic

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/babarot/trashcan/internal/core/types"
	cp "github.com/otiai10/copy"
)

// MoveOptions specifies options for move operations
type MoveOptions struct {
	AllowCrossDev bool // Allow cross-device moves (copy and delete)
	Force         bool // Force operation even if destination exists
}

// Move moves a file or directory from src to dst.
//
// Errors wrap types.ErrNotFound when src is missing, types.ErrDestinationConflict
// when dst exists and opts.Force is not set, and types.ErrIOFailure otherwise.
func Move(src, dst string, opts MoveOptions) error {
	// 1. Validate paths
	if src == "" || dst == "" {
		return NewMoveError("validate", src, dst, types.ErrInvalidPath)
	}
	if _, err := os.Lstat(src); err != nil {
		if os.IsNotExist(err) {
			return NewMoveError("stat_source", src, dst, types.ErrNotFound)
		}
		return NewMoveError("stat_source", src, dst, ioFailure(err))
	}

	// 2. Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return NewMoveError("create_parent", src, dst, ioFailure(err))
	}

	// 3. Check destination existence if not force mode
	if !opts.Force {
		exists, err := Exists(dst)
		if err != nil {
			return NewMoveError("stat_destination", src, dst, ioFailure(err))
		}
		if exists {
			return NewMoveError("stat_destination", src, dst, types.ErrDestinationConflict)
		}
	}

	// 4. Same device: a plain rename
	sameDevice, err := isSamePartition(src, dst)
	if err != nil {
		slog.Debug("could not compare partitions, trying rename", "error", err)
		sameDevice = true
	}
	if sameDevice {
		if err := os.Rename(src, dst); err != nil {
			return NewMoveError("rename", src, dst, ioFailure(err))
		}
		slog.Debug("file moved", "from", src, "to", dst)
		return nil
	}

	// 5. Fall back to copy and delete
	if !opts.AllowCrossDev {
		return NewMoveError("rename", src, dst, ioFailure(ErrCrossDeviceMove))
	}
	slog.Debug("different partitions detected, falling back to copy-and-delete", "from", src, "to", dst)
	return copyAndDelete(src, dst)
}

// copyAndDelete copies a file or directory and then deletes the original
func copyAndDelete(src, dst string) error {
	opts := cp.Options{
		OnSymlink: func(src string) cp.SymlinkAction {
			return cp.Shallow // keep links as links
		},
		PreserveTimes: true,
		Sync:          true,
	}

	if err := cp.Copy(src, dst, opts); err != nil {
		// Drop whatever was partially copied
		_ = os.RemoveAll(dst)
		return NewMoveError("copy", src, dst, ioFailure(err))
	}

	if err := os.RemoveAll(src); err != nil {
		if rmErr := os.RemoveAll(dst); rmErr != nil {
			return NewMoveError("cleanup", src, dst,
				ioFailure(fmt.Errorf("failed to remove both source and destination: %v, %v", err, rmErr)))
		}
		return NewMoveError("remove_source", src, dst, ioFailure(err))
	}

	return nil
}

// Remove deletes the file or directory at path.
// A path that is already absent is not an error.
func Remove(path string) error {
	if path == "" {
		return types.NewError("remove", path, types.ErrInvalidPath)
	}
	if err := os.RemoveAll(path); err != nil {
		return types.NewError("remove", path, ioFailure(err))
	}
	return nil
}

// Exists reports whether something (including a dangling symlink) exists at path
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, err
	}
}

// FS is the filesystem gateway used by the trash manager
type FS struct {
	AllowCrossDev bool
}

// Move moves src to dst, never overwriting dst
func (f FS) Move(src, dst string) error {
	return Move(src, dst, MoveOptions{AllowCrossDev: f.AllowCrossDev})
}

// Remove deletes path, treating absence as success
func (f FS) Remove(path string) error {
	return Remove(path)
}

// Exists reports whether path exists
func (f FS) Exists(path string) (bool, error) {
	exists, err := Exists(path)
	if err != nil {
		return false, types.NewError("stat", path, ioFailure(err))
	}
	return exists, nil
}
