package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath reads EVERE_RUNTIME_PATH without parsing the rest of the
// environment, for commands that run before configuration exists.
func GetRuntimePath() string {
	return ResolveRuntimePath(os.Getenv("EVERE_RUNTIME_PATH"))
}

// ResolveRuntimePath anchors a relative runtime path in the user's home.
func ResolveRuntimePath(path string) string {
	if path == "" {
		path = ".evere"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
