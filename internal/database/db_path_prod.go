//go:build prod

package database

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaultDBPath returns the database path for production mode.
// In production, the database is stored in the user's config directory.
// On error the fallback path is returned alongside it.
func GetDefaultDBPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return fallbackDBPath, fmt.Errorf("user config dir: %w", err)
	}

	appDir := filepath.Join(configDir, "docugen")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fallbackDBPath, fmt.Errorf("create app config dir: %w", err)
	}

	return filepath.Join(appDir, "docugen.db"), nil
}

func IsDevelopment() bool {
	return false
}
