// Package discovery finds Claude Code session logs on disk.
//
// It walks the configured project directories for JSONL files. Claude Code
// keeps one file per session under a directory per project, and nests
// subagent transcripts deeper, so the walk is recursive.
//
// Example usage:
//
//	d := discovery.New([]string{"~/.claude/projects"}, logger.Default())
//	files, err := d.Discover()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range files {
//	    fmt.Printf("Session: %s, Project: %s\n", f.SessionID, f.ProjectPath)
//	}
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Logger defines the logging interface used by the discovery package.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SessionFile represents a discovered JSONL log.
type SessionFile struct {
	// SessionID is the UUID taken from the filename, empty when the name is
	// not a UUID.
	SessionID string

	// FilePath is the path to the JSONL file.
	FilePath string

	// ProjectPath is the top-level project directory holding the file.
	ProjectPath string

	// Size is the file size in bytes.
	Size int64

	// ModTime is the last modification time.
	ModTime int64 // Unix timestamp
}

// Discoverer finds JSONL usage logs.
type Discoverer interface {
	// Discover walks every configured directory.
	//
	// Missing directories are skipped with a warning. Returns
	// ErrNoSessionsFound when nothing was found. Files are sorted by path.
	Discover() ([]SessionFile, error)

	// DiscoverProject walks one directory.
	//
	// Returns ErrProjectNotFound if it does not exist.
	DiscoverProject(projectPath string) ([]SessionFile, error)
}

// discoverer implements the Discoverer interface.
type discoverer struct {
	baseDirs []string // Claude config directories to scan
	logger   Logger
}

// New creates a new Discoverer instance.
func New(baseDirs []string, logger Logger) Discoverer {
	return &discoverer{
		baseDirs: baseDirs,
		logger:   logger,
	}
}

// Discover implements Discoverer.Discover.
func (d *discoverer) Discover() ([]SessionFile, error) {
	var all []SessionFile

	for _, baseDir := range d.baseDirs {
		expandedDir := expandHome(baseDir)

		if _, err := os.Stat(expandedDir); err != nil {
			if os.IsNotExist(err) {
				d.logger.Warn("directory not found, skipping", "path", expandedDir)
				continue
			}
			return nil, fmt.Errorf("failed to stat directory %s: %w", expandedDir, err)
		}

		files, err := d.walk(expandedDir, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", expandedDir, err)
		}

		all = append(all, files...)
	}

	d.logger.Info("discovery complete", "total_files", len(all))
	if len(all) == 0 {
		return nil, ErrNoSessionsFound
	}

	sortByPath(all)
	return all, nil
}

// DiscoverProject implements Discoverer.DiscoverProject.
func (d *discoverer) DiscoverProject(projectPath string) ([]SessionFile, error) {
	expandedPath := expandHome(projectPath)

	if _, err := os.Stat(expandedPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, expandedPath)
		}
		return nil, fmt.Errorf("failed to stat directory %s: %w", expandedPath, err)
	}

	files, err := d.walk(expandedPath, false)
	if err != nil {
		return nil, err
	}
	sortByPath(files)
	return files, nil
}

// walk collects every *.jsonl below root. When root holds projects, the
// first path element below it names the project; otherwise root does.
func (d *discoverer) walk(root string, projects bool) ([]SessionFile, error) {
	files := make([]SessionFile, 0, 10)

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			d.logger.Warn("failed to read path, skipping", "path", path, "error", err)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			d.logger.Warn("failed to get file info", "path", path, "error", err)
			return nil
		}

		projectPath := root
		if projects {
			rel, relErr := filepath.Rel(root, path)
			if relErr == nil {
				if first, _, nested := strings.Cut(filepath.ToSlash(rel), "/"); nested {
					projectPath = filepath.Join(root, first)
				}
			}
		}

		sessionID := strings.TrimSuffix(entry.Name(), ".jsonl")
		if !isValidSessionID(sessionID) {
			sessionID = ""
		}

		files = append(files, SessionFile{
			SessionID:   sessionID,
			FilePath:    path,
			ProjectPath: projectPath,
			Size:        info.Size(),
			ModTime:     info.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	d.logger.Debug("scanned directory", "path", root, "files_found", len(files))
	return files, nil
}

// Paths returns the file paths of files, in order.
func Paths(files []SessionFile) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.FilePath
	}
	return paths
}

func sortByPath(files []SessionFile) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].FilePath < files[j].FilePath
	})
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}

// isValidSessionID performs basic validation on session ID format.
//
// Expected format: UUID v4 (8-4-4-4-12 hex digits with dashes)
// Example: a1b2c3d4-e5f6-7890-abcd-ef1234567890.
func isValidSessionID(id string) bool {
	if len(id) != 36 {
		return false
	}

	if id[8] != '-' || id[13] != '-' || id[18] != '-' || id[23] != '-' {
		return false
	}

	for i, c := range id {
		if i == 8 || i == 13 || i == 18 || i == 23 {
			continue
		}
		if !isHexDigit(c) {
			return false
		}
	}

	return true
}

// isHexDigit checks if a rune is a hexadecimal digit.
func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'f') ||
		(r >= 'A' && r <= 'F')
}
