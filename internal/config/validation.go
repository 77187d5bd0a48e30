package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/babarot/trashcan/internal/utils/duration"
	"github.com/docker/go-units"
	"github.com/go-playground/validator/v10"
)

// validateSize validates the size format (e.g., "10MB", "1GB")
func validateSize(fl validator.FieldLevel) bool {
	_, err := units.FromHumanSize(fl.Field().String())
	return err == nil
}

// validateDuration validates a retention period (e.g., "7", "7d", "2w", "3 days")
func validateDuration(fl validator.FieldLevel) bool {
	_, err := duration.Parse(fl.Field().String())
	return err == nil
}

// expandPath expands environment variables and "~" in paths
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	path = os.ExpandEnv(path)

	return filepath.Abs(path)
}

// validateDirPath is a validation function for directory paths that works on any OS.
// A path that does not exist yet is valid, a path that exists must be a directory.
//
// Empty strings are considered invalid.
func validateDirPath(fl validator.FieldLevel) bool {
	path := strings.TrimSpace(fl.Field().String())
	if path == "" {
		return false
	}

	fi, err := os.Stat(filepath.Clean(path))
	if err == nil {
		return fi.IsDir()
	}
	return os.IsNotExist(err)
}
