package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StoreBackend selects the record store implementation
type StoreBackend string

const (
	// BackendFile keeps records in a pipe-delimited flat file
	BackendFile StoreBackend = "file"

	// BackendSQLite keeps records in a SQLite database
	BackendSQLite StoreBackend = "sqlite"
)

// DefaultRetention is the age after which entries become eligible for expiry
const DefaultRetention = 7 * 24 * time.Hour

// Config holds everything the manager needs to know about where and how
// trashed files are kept. It is passed explicitly to NewManager.
type Config struct {
	// HoldingDir is the directory where trashed payloads physically reside
	HoldingDir string

	// Backend determines which record store implementation to use
	Backend StoreBackend

	// Retention is the default window used by AutoExpire
	Retention time.Duration

	// AutoExpire makes AutoExpire remove entries older than Retention
	AutoExpire bool

	// AllowCrossDevice enables copy-and-delete when a rename crosses filesystems
	AllowCrossDevice bool
}

// NewDefaultConfig creates a new Config with default values
func NewDefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		HoldingDir:       filepath.Join(home, ".trashcan"),
		Backend:          BackendFile,
		Retention:        DefaultRetention,
		AllowCrossDevice: true,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HoldingDir == "" {
		return fmt.Errorf("holding directory must be set")
	}
	if !filepath.IsAbs(c.HoldingDir) {
		return fmt.Errorf("holding directory must be an absolute path: %s", c.HoldingDir)
	}

	switch c.Backend {
	case BackendFile, BackendSQLite:
	case "":
		c.Backend = BackendFile
	default:
		return fmt.Errorf("unknown store backend: %q", c.Backend)
	}

	if c.Retention < 0 {
		return fmt.Errorf("retention must not be negative: %s", c.Retention)
	}

	return nil
}
