// Package workspace provides acta workspace detection and management.
package workspace

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// ErrNotInWorkspace is returned when the current directory is not within a workspace.
var ErrNotInWorkspace = errors.New("not in an acta workspace")

// MarkerDir is the directory that marks a workspace root.
const MarkerDir = ".acta"

// ConfigFile is the metadata file within the marker directory.
const ConfigFile = "acta.json"

// EnvRoot is the environment variable for overriding workspace root detection.
const EnvRoot = "ACTA_ROOT"

// IsWorkspace checks if the given path is a valid workspace root.
// A valid workspace has a .acta directory containing a valid acta.json file.
func IsWorkspace(path string) bool {
	markerDir := filepath.Join(path, MarkerDir)
	configPath := filepath.Join(markerDir, ConfigFile)

	info, err := os.Stat(markerDir)
	if err != nil || !info.IsDir() {
		return false
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return false
	}

	var config map[string]interface{}
	return json.Unmarshal(data, &config) == nil
}

// FindRoot finds the root of the workspace containing the current working
// directory. It walks up the directory tree looking for .acta/acta.json.
// If ACTA_ROOT is set and points to a valid workspace, it takes precedence.
// Returns ErrNotInWorkspace if no workspace is found.
func FindRoot() (string, error) {
	if envRoot := os.Getenv(EnvRoot); envRoot != "" {
		absPath, err := filepath.Abs(envRoot)
		if err != nil {
			return "", ErrNotInWorkspace
		}
		if IsWorkspace(absPath) {
			return absPath, nil
		}
		// Env var set but invalid - return error
		return "", ErrNotInWorkspace
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	return FindRootFrom(cwd)
}

// FindRootFrom finds the root of the workspace containing the given path.
// Returns ErrNotInWorkspace if no workspace is found.
func FindRootFrom(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	current := absPath
	for {
		if IsWorkspace(current) {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Reached filesystem root
			return "", ErrNotInWorkspace
		}
		current = parent
	}
}
