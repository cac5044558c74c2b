// Package config provides configuration loading and structs for the docfinder server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug       bool              `yaml:"debug"`
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Intake      IntakeConfig      `yaml:"intake"`
	Interpreter InterpreterConfig `yaml:"interpreter"`
	Limits      LimitsConfig      `yaml:"limits"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the record store backend and file paths.
type StorageConfig struct {
	// Backend selects the record store implementation: "json" or "sqlite".
	Backend string `yaml:"backend"`
	// IndexPath is the flat JSON index file (json backend).
	IndexPath string `yaml:"index_path"`
	// SQLitePath is the database file (sqlite backend).
	SQLitePath string `yaml:"sqlite_path"`
	// FilesDir is the root directory for stored document files.
	FilesDir string `yaml:"files_dir"`
}

// IntakeConfig holds hot-folder ingestion settings.
type IntakeConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
}

// InterpreterConfig selects and configures the query interpreter backend.
type InterpreterConfig struct {
	// Backend is "rules" or "deepseek".
	Backend string `yaml:"backend"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	// APIKeyEnv names the environment variable holding the API key,
	// so the key itself never lands in the config file.
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LimitsConfig holds request limits for the HTTP API.
type LimitsConfig struct {
	// UploadsPerSecond caps mutating requests; Burst allows short spikes.
	UploadsPerSecond float64 `yaml:"uploads_per_second"`
	Burst            int     `yaml:"burst"`
	MaxUploadMB      int     `yaml:"max_upload_mb"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.IndexPath = expandPath(cfg.Storage.IndexPath, configDir)
	cfg.Storage.SQLitePath = expandPath(cfg.Storage.SQLitePath, configDir)
	cfg.Storage.FilesDir = expandPath(cfg.Storage.FilesDir, configDir)
	for i := range cfg.Intake.Directories {
		cfg.Intake.Directories[i] = expandPath(cfg.Intake.Directories[i], configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
