package config

import (
	"os"
	"path/filepath"
)

// appDir is the per-user directory holding config and data.
const appDir = "year-in-code"

// defaultClaudeDirs returns the default Claude Code project directories.
//
// Searches in order:
// 1. ~/.config/claude/projects/ (new default)
// 2. ~/.claude/projects/ (legacy)
//
// Returns all directories that exist on the filesystem.
func defaultClaudeDirs() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return []string{"."}
	}

	candidates := []string{
		filepath.Join(homeDir, ".config", "claude", "projects"),
		filepath.Join(homeDir, ".claude", "projects"),
	}

	var dirs []string
	for _, dir := range candidates {
		if _, err := os.Stat(dir); err == nil {
			dirs = append(dirs, dir)
		}
	}

	if len(dirs) == 0 {
		return []string{filepath.Join(homeDir, ".claude", "projects")}
	}

	return dirs
}

// defaultDBPath returns ~/.config/year-in-code/leaderboard.db.
func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./leaderboard.db"
	}

	return filepath.Join(homeDir, ".config", appDir, "leaderboard.db")
}

// DefaultConfigPath returns ~/.config/year-in-code/config.yaml.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}

	return filepath.Join(homeDir, ".config", appDir, "config.yaml")
}
