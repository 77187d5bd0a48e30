package atomic

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const tempSuffix = ".tmp"

// TempFile represents a temporary file with cleanup capability
type TempFile struct {
	Path     string    // Path to the temporary file
	Created  time.Time // Creation time
	CleanErr error     // Error that occurred during cleanup if any
}

// TempManager handles temporary file operations
type TempManager struct {
	baseDir string // Base directory for temporary files
}

// NewTempManager creates a new TempManager instance
func NewTempManager(baseDir string) (*TempManager, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}

	return &TempManager{
		baseDir: baseDir,
	}, nil
}

// CreateTemp creates a new temporary file
func (m *TempManager) CreateTemp(prefix string) (*TempFile, error) {
	tempPath := filepath.Join(
		m.baseDir,
		fmt.Sprintf("%s.%s%s", prefix, uuid.New().String(), tempSuffix),
	)

	// Create the file to reserve the name
	f, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, fmt.Errorf("%w: create temp file: %w", ErrTemporaryFileError, err)
	}
	f.Close()

	return &TempFile{
		Path:    tempPath,
		Created: time.Now(),
	}, nil
}

// Cleanup removes the temporary file if it exists
func (f *TempFile) Cleanup() {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		f.CleanErr = NewCleanupError(f.Path, err)
	}
}

// CleanupAll removes temporary files with the given prefix older than the specified duration
func (m *TempManager) CleanupAll(prefix string, olderThan time.Duration) error {
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		return fmt.Errorf("read temp directory: %w", err)
	}

	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix+".") || !strings.HasSuffix(name, tempSuffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if time.Since(info.ModTime()) > olderThan {
			path := filepath.Join(m.baseDir, name)
			if err := os.Remove(path); err != nil {
				errs = append(errs, NewCleanupError(path, err))
			}
		}
	}

	return errors.Join(errs...)
}

// SafeWriter wraps a temporary file so that the destination is only ever
// replaced by a complete, synced file
type SafeWriter struct {
	temp     *TempFile
	file     *os.File
	finished bool
}

// NewSafeWriter creates a new SafeWriter
func (m *TempManager) NewSafeWriter(prefix string) (*SafeWriter, error) {
	temp, err := m.CreateTemp(prefix)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(temp.Path, os.O_WRONLY, 0600)
	if err != nil {
		temp.Cleanup()
		return nil, fmt.Errorf("open temp file: %w", err)
	}

	return &SafeWriter{
		temp: temp,
		file: file,
	}, nil
}

// Write writes data to the temporary file
func (w *SafeWriter) Write(p []byte) (n int, err error) {
	if w.finished {
		return 0, fmt.Errorf("write to finished writer")
	}
	return w.file.Write(p)
}

// Commit finalizes the write and renames the temporary file to dst
func (w *SafeWriter) Commit(dst string) error {
	if w.finished {
		return fmt.Errorf("commit finished writer")
	}
	w.finished = true

	if err := w.file.Sync(); err != nil {
		w.Cleanup()
		return fmt.Errorf("sync file: %w", err)
	}
	if err := w.file.Close(); err != nil {
		w.temp.Cleanup()
		return fmt.Errorf("close file: %w", err)
	}

	if err := os.Rename(w.temp.Path, dst); err != nil {
		w.temp.Cleanup()
		return fmt.Errorf("rename to destination: %w", err)
	}

	return nil
}

// Cleanup removes the temporary file
func (w *SafeWriter) Cleanup() {
	w.finished = true
	w.file.Close()
	w.temp.Cleanup()
}
