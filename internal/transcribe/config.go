// Package transcribe provides the one-shot audio transcription pipeline.
package transcribe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/TechnicallyShaun/acta-orbis/internal/workspace"
)

// ConfigFileName is the name of the transcription config file within .acta
const ConfigFileName = "transcribe.yaml"

// Default values for optional configuration fields
const (
	DefaultArchiveDir    = "~/.acta/archive/audio"
	DefaultLanguage      = "auto"
	DefaultModel         = "base"
	DefaultMaxFileSizeMB = 100
	DefaultRetryCount    = 3
)

// Config represents the transcription pipeline configuration
type Config struct {
	APIURL        string `yaml:"api_url"`
	DiarizeURL    string `yaml:"diarize_url"`
	OutputDir     string `yaml:"output_dir"`
	TemplatePath  string `yaml:"template_path"`
	ArchiveDir    string `yaml:"archive_dir"`
	Language      string `yaml:"language"`
	Model         string `yaml:"model"`
	MaxFileSizeMB int    `yaml:"max_file_size_mb"`
	RetryCount    int    `yaml:"retry_count"`
}

// Validation errors
var (
	ErrAPIURLRequired    = errors.New("api_url is required")
	ErrOutputDirRequired = errors.New("output_dir is required")
)

// Load reads the transcription configuration from the workspace's
// .acta/transcribe.yaml file. It uses workspace.FindRoot to locate the
// workspace. Paths containing ~ are expanded to the user's home directory.
func Load() (*Config, error) {
	root, err := workspace.FindRoot()
	if err != nil {
		return nil, err
	}
	return LoadFromWorkspace(root)
}

// LoadFromWorkspace reads the transcription configuration from a
// specific workspace path.
func LoadFromWorkspace(root string) (*Config, error) {
	configPath := filepath.Join(root, workspace.MarkerDir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigFileName, err)
	}

	cfg.expandPaths()
	return &cfg, nil
}

// SaveToWorkspace writes the configuration to a specific workspace path.
// The file is created with 0644 permissions.
func (c *Config) SaveToWorkspace(root string) error {
	configPath := filepath.Join(root, workspace.MarkerDir, ConfigFileName)

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Validate checks that all required fields are present.
// Returns an error if any required field is missing or empty.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return ErrAPIURLRequired
	}
	if c.OutputDir == "" {
		return ErrOutputDirRequired
	}
	return nil
}

// ApplyDefaults sets default values for optional fields that are empty or zero.
// Call this after creating a new Config so optional fields have sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.ArchiveDir == "" {
		c.ArchiveDir = DefaultArchiveDir
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxFileSizeMB == 0 {
		c.MaxFileSizeMB = DefaultMaxFileSizeMB
	}
	if c.RetryCount == 0 {
		c.RetryCount = DefaultRetryCount
	}
}

// expandPaths expands ~ to the user's home directory in path fields.
func (c *Config) expandPaths() {
	c.OutputDir = expandTilde(c.OutputDir)
	c.ArchiveDir = expandTilde(c.ArchiveDir)
	c.TemplatePath = expandTilde(c.TemplatePath)
}

// expandTilde expands ~ at the beginning of a path to the user's home directory.
func expandTilde(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
