package debug

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestShowExistingLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	if err := os.WriteFile(path, []byte("first\nsecond\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Logs(&buf, path, true, false); err != nil {
		t.Fatalf("Logs() failed: %v", err)
	}
	if got := buf.String(); got != "first\nsecond\n" {
		t.Errorf("Logs() wrote %q", got)
	}
}

func TestLogsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	tests := []struct {
		name     string
		enabled  bool
		live     bool
		disabled bool
	}{
		{"disabled", false, false, true},
		{"disabled live", false, true, true},
		{"enabled but empty", true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Logs(&bytes.Buffer{}, path, tt.enabled, tt.live)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if errors.Is(err, ErrLoggingDisabled) != tt.disabled {
				t.Errorf("Logs() error = %v, want disabled=%v", err, tt.disabled)
			}
		})
	}
}
