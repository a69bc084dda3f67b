package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "cardbox"

// DefaultRootPath is used when no root has been registered and CARDBOX_ROOT
// is unset.
const DefaultRootPath = "~/Documents/cards"

// RootPath returns the card root from the CARDBOX_ROOT env var, falling
// back to DefaultRootPath.
func RootPath() string {
	if env := os.Getenv("CARDBOX_ROOT"); env != "" {
		return env
	}
	return DefaultRootPath
}

// DatabasePath returns the index database location. The database is shared
// across every registered root and lives under the user's XDG data
// directory; CARDBOX_DB overrides.
func DatabasePath() (string, error) {
	if env := os.Getenv("CARDBOX_DB"); env != "" {
		return env, nil
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, appName, "index.db"), nil
}
