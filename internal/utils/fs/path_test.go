package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsUnsafePath(t *testing.T) {
	tests := []struct {
		path    string
		unsafe  bool
		wantErr bool
	}{
		{".", true, false},                 // original dot
		{"..", true, false},                // original double dot
		{"./", true, false},                // dot with slash
		{"./.", true, false},               // multiple dots
		{"./../../foo/../..", true, false}, // complex path to root
		{"/", true, false},                 // root
		{"//", true, false},                // double slash
		{"//foo", true, false},             // path with double slash
		{"/foo", false, false},             // normal absolute path
		{"foo", false, false},              // normal relative path
		{"foo/bar", false, false},          // normal nested path
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			unsafe, err := IsUnsafePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("IsUnsafePath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if unsafe != tt.unsafe {
				t.Errorf("IsUnsafePath() = %v, want %v", unsafe, tt.unsafe)
			}
		})
	}
}

func TestIsWithin(t *testing.T) {
	tests := []struct {
		path string
		dir  string
		want bool
	}{
		{"/home/u/.trashcan", "/home/u/.trashcan", true},
		{"/home/u/.trashcan/a.txt.1", "/home/u/.trashcan", true},
		{"/home/u/.trashcan/", "/home/u/.trashcan", true},
		{"/home/u", "/home/u/.trashcan", false},
		{"/home/u/.trashcan2/a", "/home/u/.trashcan", false},
		{"/tmp/..foo", "/tmp", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsWithin(tt.path, tt.dir); got != tt.want {
				t.Errorf("IsWithin(%q, %q) = %v, want %v", tt.path, tt.dir, got, tt.want)
			}
		})
	}
}

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a"), make([]byte, 100), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "b"), make([]byte, 24), 0644); err != nil {
		t.Fatal(err)
	}

	size, err := DirSize(dir)
	if err != nil {
		t.Fatalf("DirSize() failed: %v", err)
	}
	if size != 124 {
		t.Errorf("DirSize() = %d, want 124", size)
	}

	size, err = DirSize(filepath.Join(dir, "a"))
	if err != nil || size != 100 {
		t.Errorf("DirSize(file) = %d, %v; want 100, nil", size, err)
	}

	if _, err := DirSize(filepath.Join(dir, "missing")); err == nil {
		t.Error("DirSize() on missing path should fail")
	}
}
