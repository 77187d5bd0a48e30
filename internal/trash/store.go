// Package trash implements the lifecycle of trashed files: moving them into
// the holding area, recording them, restoring them and purging them.
package trash

import (
	"fmt"

	"github.com/babarot/trashcan/internal/core/types"
	"github.com/babarot/trashcan/internal/trash/flatfile"
	"github.com/babarot/trashcan/internal/trash/sqlite"
)

// Store persists trash entries.
//
// Implementations return errors wrapping types.ErrStoreUnavailable when the
// backend cannot be read or written, and types.ErrNotFound from Find.
type Store interface {
	// Insert persists a new entry and returns it with its assigned ID
	Insert(entry types.Entry) (types.Entry, error)

	// List returns all live entries in insertion order
	List() ([]types.Entry, error)

	// Find returns the entry with the given ID
	Find(id uint64) (types.Entry, error)

	// Delete removes the entry with the given ID; unknown IDs are a no-op
	Delete(id uint64) error

	// Close releases the store handle
	Close() error
}

// Opener opens a store handle. The manager opens one handle per operation
// and closes it before returning.
type Opener func() (Store, error)

// FileSystem moves and removes trashed payloads
type FileSystem interface {
	// Move moves src to dst without overwriting an existing dst
	Move(src, dst string) error

	// Remove deletes path; an absent path is not an error
	Remove(path string) error

	// Exists reports whether path exists
	Exists(path string) (bool, error)
}

// NewOpener returns the opener for the backend selected in cfg
func NewOpener(cfg Config) (Opener, error) {
	dir := cfg.HoldingDir
	switch cfg.Backend {
	case BackendFile, "":
		return func() (Store, error) {
			return flatfile.Open(dir)
		}, nil
	case BackendSQLite:
		return func() (Store, error) {
			return sqlite.Open(dir)
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Backend)
	}
}
