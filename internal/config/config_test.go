package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestParse(t *testing.T) {
	holding := filepath.Join(t.TempDir(), "trash")

	testCases := []struct {
		name        string
		content     string
		wantErr     string
		wantBackend string
		wantPeriod  time.Duration
	}{
		{
			name:        "empty file keeps defaults",
			content:     "",
			wantBackend: "file",
			wantPeriod:  7 * 24 * time.Hour,
		},
		{
			name: "sqlite backend with custom retention",
			content: `
core:
  holding_dir: ` + holding + `
  store:
    backend: sqlite
  retention: 2w
`,
			wantBackend: "sqlite",
			wantPeriod:  14 * 24 * time.Hour,
		},
		{
			name: "long form retention",
			content: `
core:
  retention: 3 days
`,
			wantBackend: "file",
			wantPeriod:  3 * 24 * time.Hour,
		},
		{
			name: "unknown backend",
			content: `
core:
  store:
    backend: postgres
`,
			wantErr: "backend",
		},
		{
			name: "invalid retention",
			content: `
core:
  retention: soon
`,
			wantErr: "retention",
		},
		{
			name: "invalid rotation size",
			content: `
logging:
  rotation:
    max_size: huge
`,
			wantErr: "max_size",
		},
		{
			name:    "broken yaml",
			content: "core: [",
			wantErr: "failed to parse config",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Parse(writeConfig(t, tc.content))
			if tc.wantErr != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, got nil", tc.wantErr)
				}
				if !strings.Contains(err.Error(), tc.wantErr) {
					t.Errorf("Expected error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if cfg.Core.Store.Backend != tc.wantBackend {
				t.Errorf("Expected backend %q, got %q", tc.wantBackend, cfg.Core.Store.Backend)
			}
			period, err := cfg.RetentionPeriod()
			if err != nil {
				t.Fatalf("RetentionPeriod() failed: %v", err)
			}
			if period != tc.wantPeriod {
				t.Errorf("Expected retention %v, got %v", tc.wantPeriod, period)
			}
			if !filepath.IsAbs(cfg.Core.HoldingDir) {
				t.Errorf("holding_dir should be absolute, got %q", cfg.Core.HoldingDir)
			}
		})
	}
}

func TestParseHoldingDirIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Parse(writeConfig(t, "core:\n  holding_dir: "+file+"\n"))
	if err == nil || !strings.Contains(err.Error(), "holding_dir") {
		t.Errorf("Expected holding_dir validation error, got %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	t.Setenv("TRASHCAN_TEST_DIR", "/var/tmp/trashcan")

	tests := []struct {
		input string
		want  string
	}{
		{"~/.trashcan", filepath.Join(home, ".trashcan")},
		{"~", home},
		{"$TRASHCAN_TEST_DIR/holding", "/var/tmp/trashcan/holding"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := expandPath(tt.input)
			if err != nil {
				t.Fatalf("expandPath(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
