package types

import (
	"path/filepath"
	"time"
)

// Entry represents a file in the trash
type Entry struct {
	ID           uint64    `json:"id"`
	OriginalPath string    `json:"original_path"`
	TrashedPath  string    `json:"trashed_path"`
	DeletedAt    time.Time `json:"deleted_at"`
}

// Name returns the trashed name, that is the base name of the payload in the holding area
func (e Entry) Name() string {
	return filepath.Base(e.TrashedPath)
}

// GetName returns the original base name of the file
func (e Entry) GetName() string {
	return filepath.Base(e.OriginalPath)
}

// GetPath returns the current path in trash
func (e Entry) GetPath() string {
	return e.TrashedPath
}

// GetDeletedAt returns when the file was trashed
func (e Entry) GetDeletedAt() time.Time {
	return e.DeletedAt
}
