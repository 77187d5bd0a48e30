package atomic

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/babarot/trashcan/internal/core/types"
)

// createTestFile creates a test file with given content
func createTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "source.txt")
	dstPath := filepath.Join(dir, "nested", "destination.txt")
	content := "test content"

	createTestFile(t, srcPath, content)

	if err := Move(srcPath, dstPath, MoveOptions{}); err != nil {
		t.Fatalf("Failed to move file: %v", err)
	}

	if _, err := os.Stat(srcPath); !os.IsNotExist(err) {
		t.Fatal("Source file should not exist after move")
	}

	got, err := os.ReadFile(dstPath)
	if err != nil {
		t.Fatalf("Failed to read destination file: %v", err)
	}
	if string(got) != content {
		t.Fatalf("Destination file content mismatch. Expected %q, got %q", content, got)
	}
}

func TestMoveDirectory(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(filepath.Join(srcDir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	createTestFile(t, filepath.Join(srcDir, "sub", "a.txt"), "a")

	dstDir := filepath.Join(dir, "dst")
	if err := Move(srcDir, dstDir, MoveOptions{}); err != nil {
		t.Fatalf("Failed to move directory: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dstDir, "sub", "a.txt")); err != nil {
		t.Fatalf("Moved directory content missing: %v", err)
	}
}

func TestMoveErrors(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.txt")
	createTestFile(t, existing, "occupied")
	src := filepath.Join(dir, "src.txt")
	createTestFile(t, src, "payload")

	tests := []struct {
		name    string
		src     string
		dst     string
		opts    MoveOptions
		wantErr error
	}{
		{
			name:    "missing source",
			src:     filepath.Join(dir, "missing.txt"),
			dst:     filepath.Join(dir, "out.txt"),
			wantErr: types.ErrNotFound,
		},
		{
			name:    "destination exists",
			src:     src,
			dst:     existing,
			wantErr: types.ErrDestinationConflict,
		},
		{
			name:    "empty path",
			src:     "",
			dst:     existing,
			wantErr: types.ErrInvalidPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Move(tt.src, tt.dst, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Move() error = %v, want %v", err, tt.wantErr)
			}
			var moveErr *MoveError
			if !errors.As(err, &moveErr) {
				t.Errorf("Move() error should be a *MoveError, got %T", err)
			}
		})
	}

	// Conflicting destination must be left untouched
	got, _ := os.ReadFile(existing)
	if string(got) != "occupied" {
		t.Errorf("destination was overwritten: %q", got)
	}
}

func TestMoveForce(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	createTestFile(t, src, "new")
	createTestFile(t, dst, "old")

	if err := Move(src, dst, MoveOptions{Force: true}); err != nil {
		t.Fatalf("Move() with force failed: %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "new" {
		t.Errorf("expected destination to be replaced, got %q", got)
	}
}

func TestCopyAndDelete(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "copy", "dst.txt")
	createTestFile(t, src, "copied")
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		t.Fatal(err)
	}

	if err := copyAndDelete(src, dst); err != nil {
		t.Fatalf("copyAndDelete() failed: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source should be gone after copyAndDelete")
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "copied" {
		t.Errorf("unexpected content %q", got)
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	createTestFile(t, path, "x")

	if err := Remove(path); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("file should be gone")
	}

	// Removing again is not an error
	if err := Remove(path); err != nil {
		t.Errorf("Remove() on absent path should succeed, got %v", err)
	}
}

func TestFSExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	fs := FS{}

	exists, err := fs.Exists(path)
	if err != nil || exists {
		t.Fatalf("Exists() = %v, %v; want false, nil", exists, err)
	}

	createTestFile(t, path, "x")
	exists, err = fs.Exists(path)
	if err != nil || !exists {
		t.Fatalf("Exists() = %v, %v; want true, nil", exists, err)
	}
}

func TestSafeWriter(t *testing.T) {
	dir := t.TempDir()
	m, err := NewTempManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	w, err := m.NewSafeWriter("metadata")
	if err != nil {
		t.Fatalf("NewSafeWriter() failed: %v", err)
	}
	if _, err := w.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	dst := filepath.Join(dir, "metadata")
	if err := w.Commit(dst); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "hello\n" {
		t.Errorf("unexpected content %q", got)
	}

	if _, err := w.Write([]byte("more")); err == nil {
		t.Error("Write() after Commit() should fail")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %v", entries)
	}
}

func TestCleanupAll(t *testing.T) {
	dir := t.TempDir()
	m, err := NewTempManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	stale, err := m.CreateTemp("metadata")
	if err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale.Path, old, old); err != nil {
		t.Fatal(err)
	}
	fresh, err := m.CreateTemp("metadata")
	if err != nil {
		t.Fatal(err)
	}
	other := filepath.Join(dir, "payload.txt")
	createTestFile(t, other, "keep")
	if err := os.Chtimes(other, old, old); err != nil {
		t.Fatal(err)
	}

	if err := m.CleanupAll("metadata", time.Hour); err != nil {
		t.Fatalf("CleanupAll() failed: %v", err)
	}

	if _, err := os.Stat(stale.Path); !os.IsNotExist(err) {
		t.Error("stale temp file should be removed")
	}
	if _, err := os.Stat(fresh.Path); err != nil {
		t.Error("fresh temp file should be kept")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("unrelated file should be kept")
	}
}
