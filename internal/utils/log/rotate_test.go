package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/babarot/trashcan/internal/config"
)

func TestRotateWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "debug.log")

	w, err := NewRotateWriter(path, config.RotationConfig{MaxSize: "64B", MaxFiles: 2})
	if err != nil {
		t.Fatalf("NewRotateWriter() failed: %v", err)
	}
	defer w.Close()

	line := []byte(strings.Repeat("x", 40) + "\n")
	for i := 0; i < 5; i++ {
		if _, err := w.Write(line); err != nil {
			t.Fatalf("Write() failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var rotated int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "debug.log.") {
			rotated++
		}
	}
	if rotated != 2 {
		t.Errorf("Expected 2 rotated files to be kept, got %d", rotated)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != int64(len(line)) {
		t.Errorf("Expected current log to hold one line, got %d bytes", info.Size())
	}
}

func TestRotateWriterInvalidSize(t *testing.T) {
	_, err := NewRotateWriter(filepath.Join(t.TempDir(), "debug.log"), config.RotationConfig{MaxSize: "lots"})
	if err == nil {
		t.Error("Expected error for invalid max size")
	}
}
