package env

import (
	"os"
	"path/filepath"
)

const (
	defaultXDGConfigDirname = ".config"
	defaultXDGDataDirname   = ".local/share"
)

var (
	TRASHCAN_CONFIG_PATH string

	TRASHCAN_LOG_PATH string
)

func init() {
	// https://github.com/charmbracelet/log/issues/35
	os.Setenv("CLICOLOR_FORCE", "1")

	// Follow https://specifications.freedesktop.org/basedir-spec/latest/
	TRASHCAN_CONFIG_PATH = os.Getenv("TRASHCAN_CONFIG_PATH")
	if TRASHCAN_CONFIG_PATH == "" {
		configDir := os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			configDir = filepath.Join(homeDir(), defaultXDGConfigDirname)
		}
		TRASHCAN_CONFIG_PATH = filepath.Join(configDir, "trashcan", "config.yaml")
	}

	TRASHCAN_LOG_PATH = os.Getenv("TRASHCAN_LOG_PATH")
	if TRASHCAN_LOG_PATH == "" {
		dataDir := os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			dataDir = filepath.Join(homeDir(), defaultXDGDataDirname)
		}
		TRASHCAN_LOG_PATH = filepath.Join(dataDir, "trashcan", "debug.log")
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return home
}
