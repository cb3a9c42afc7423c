package workspace

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Metadata represents the contents of acta.json
type Metadata struct {
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	Version   string `json:"version"`
}

// defaultFolders are created at the workspace root on init.
var defaultFolders = []string{
	"Inbox",
	"Journal",
	"Archive",
}

var (
	ErrWorkspaceExists = errors.New("workspace already exists")
	ErrNameEmpty       = errors.New("workspace name cannot be empty")
)

// InitResult describes what Init did.
type InitResult struct {
	AlreadyExisted bool
	FoldersCreated []string
}

// Init initializes a new workspace at the given path with the specified name.
// It creates the .acta directory, acta.json metadata file, and the default
// folders. Existing folders with matching names (case-insensitive) are
// skipped. If the workspace already exists, only missing folders are created.
func Init(path, name string) (*InitResult, error) {
	if name == "" {
		return nil, ErrNameEmpty
	}

	result := &InitResult{}
	markerDir := filepath.Join(path, MarkerDir)

	if IsWorkspace(path) {
		result.AlreadyExisted = true
	} else if _, err := os.Stat(markerDir); err == nil {
		// A .acta directory without valid metadata is someone else's
		return nil, ErrWorkspaceExists
	}

	if !result.AlreadyExisted {
		if err := os.MkdirAll(markerDir, 0755); err != nil {
			return nil, err
		}

		metadata := Metadata{
			Name:      name,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0",
		}

		metadataJSON, err := json.MarshalIndent(metadata, "", "  ")
		if err != nil {
			return nil, err
		}

		configPath := filepath.Join(markerDir, ConfigFile)
		if err := os.WriteFile(configPath, metadataJSON, 0644); err != nil {
			return nil, err
		}
	}

	existingFolders, err := getExistingFolders(path)
	if err != nil {
		return nil, err
	}

	for _, folder := range defaultFolders {
		if folderExistsCaseInsensitive(folder, existingFolders) {
			continue
		}
		folderPath := filepath.Join(path, folder)
		if err := os.MkdirAll(folderPath, 0755); err != nil {
			return nil, err
		}
		result.FoldersCreated = append(result.FoldersCreated, folder)
	}

	return result, nil
}

// getExistingFolders returns a list of existing folder names in the given path
func getExistingFolders(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var folders []string
	for _, entry := range entries {
		if entry.IsDir() {
			folders = append(folders, entry.Name())
		}
	}
	return folders, nil
}

// folderExistsCaseInsensitive checks if a folder name exists in the list (case-insensitive)
func folderExistsCaseInsensitive(name string, existingFolders []string) bool {
	nameLower := strings.ToLower(name)
	for _, existing := range existingFolders {
		if strings.ToLower(existing) == nameLower {
			return true
		}
	}
	return false
}
