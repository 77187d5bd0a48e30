package config

import (
	"os"
	"path/filepath"
	"time"
)

// NewDefaultConfig creates a new Config with default values
func NewDefaultConfig() *Config {
	homedir, _ := os.UserHomeDir()

	return &Config{
		Core: Core{
			HoldingDir: filepath.Join(homedir, ".trashcan"),
			Store: StoreConfig{
				Backend: "file",
			},
			Retention:   "7d",
			AutoExpire:  false,
			CrossDevice: true,
			Verbose:     true,
			Purge: PurgeConfig{
				Confirm: true,
			},
			List: ListConfig{
				TimeFormat: time.RFC3339,
			},
			Restore: RestoreConfig{
				Verbose: true,
			},
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
			Rotation: RotationConfig{
				MaxSize:  "10MB",
				MaxFiles: 3,
			},
		},
	}
}
