package trash

import (
	"testing"
	"time"
)

// TestItem is a mock implementation of Filterable for testing
type TestItem struct {
	name      string
	path      string
	deletedAt time.Time
}

func (t TestItem) GetName() string {
	return t.name
}

func (t TestItem) GetPath() string {
	return t.path
}

func (t TestItem) GetDeletedAt() time.Time {
	return t.deletedAt
}

func createTestItems(now time.Time) []TestItem {
	return []TestItem{
		{name: "file1.txt", path: "/trash/file1.txt.1", deletedAt: now.Add(-24 * time.Hour)},
		{name: "file2.log", path: "/trash/file2.log.2", deletedAt: now.Add(-48 * time.Hour)},
		{name: "important.txt", path: "/trash/important.txt.3", deletedAt: now.Add(-72 * time.Hour)},
		{name: "temp.tmp", path: "/trash/temp.tmp.4", deletedAt: now.Add(-96 * time.Hour)},
	}
}

func names(items []TestItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.GetName())
	}
	return out
}

func TestFilter(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	items := createTestItems(now)

	testCases := []struct {
		name          string
		filterOptions FilterOptions
		expectedNames []string
	}{
		{
			name:          "No filters",
			filterOptions: FilterOptions{},
			expectedNames: []string{"file1.txt", "file2.log", "important.txt", "temp.tmp"},
		},
		{
			name:          "Glob",
			filterOptions: FilterOptions{Globs: []string{"*.txt"}},
			expectedNames: []string{"file1.txt", "important.txt"},
		},
		{
			name:          "Multiple globs",
			filterOptions: FilterOptions{Globs: []string{"*.log", "temp.*"}},
			expectedNames: []string{"file2.log", "temp.tmp"},
		},
		{
			name:          "Pattern",
			filterOptions: FilterOptions{Patterns: []string{`^file\d`}},
			expectedNames: []string{"file1.txt", "file2.log"},
		},
		{
			name:          "Within",
			filterOptions: FilterOptions{Within: 50 * time.Hour, Now: now},
			expectedNames: []string{"file1.txt", "file2.log"},
		},
		{
			name: "Combined filters",
			filterOptions: FilterOptions{
				Globs:    []string{"*.txt", "*.log"},
				Patterns: []string{`^file`},
				Within:   36 * time.Hour,
				Now:      now,
			},
			expectedNames: []string{"file1.txt"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			filtered, err := Filter(items, tc.filterOptions)
			if err != nil {
				t.Fatalf("Filter() failed: %v", err)
			}

			got := names(filtered)
			if len(got) != len(tc.expectedNames) {
				t.Fatalf("Expected %v, got %v", tc.expectedNames, got)
			}
			for i := range got {
				if got[i] != tc.expectedNames[i] {
					t.Errorf("Expected %v, got %v", tc.expectedNames, got)
					break
				}
			}
		})
	}
}

func TestFilterInvalidExpressions(t *testing.T) {
	items := createTestItems(time.Now())

	if _, err := Filter(items, FilterOptions{Globs: []string{"[unterminated"}}); err == nil {
		t.Error("Expected error for invalid glob")
	}
	if _, err := Filter(items, FilterOptions{Patterns: []string{"("}}); err == nil {
		t.Error("Expected error for invalid pattern")
	}
}
