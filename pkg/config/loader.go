package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load loads configuration with the following precedence:
	// 1. Environment variables
	// 2. Configuration file
	// 3. Default values
	//
	// Returns the merged configuration or an error if validation fails.
	Load() (*Config, error)

	// LoadFromFile loads configuration from a specific file.
	LoadFromFile(path string) (*Config, error)
}

// loader implements the Loader interface.
type loader struct {
	configPath string
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, searches for config file in:
// 1. $YEARINCODE_CONFIG
// 2. ./config.yaml (current directory)
// 3. ~/.config/year-in-code/config.yaml.
func NewLoader(configPath string) Loader {
	return &loader{
		configPath: configPath,
	}
}

// Load implements Loader.Load.
func (l *loader) Load() (*Config, error) {
	cfg := Default()

	configPath := l.configPath
	if configPath == "" {
		configPath = l.findConfigFile()
	}

	if configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			// An explicit path must load; a discovered one may be unreadable.
			if l.configPath != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
		} else {
			cfg = l.mergeConfigs(cfg, fileCfg)
		}
	}

	cfg = l.applyEnvVars(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile implements Loader.LoadFromFile.
func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return &cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func (l *loader) findConfigFile() string {
	candidates := []string{
		os.Getenv("YEARINCODE_CONFIG"),
		"./config.yaml",
		DefaultConfigPath(),
	}

	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// mergeConfigs merges file configuration into default configuration.
//
// File values override defaults, but only if they are non-zero.
func (l *loader) mergeConfigs(base, override *Config) *Config {
	result := *base

	if len(override.ClaudeConfigDirs) > 0 {
		result.ClaudeConfigDirs = override.ClaudeConfigDirs
	}

	// GitHub
	if override.GitHub.ContributionsURL != "" {
		result.GitHub.ContributionsURL = override.GitHub.ContributionsURL
	}
	if override.GitHub.APIURL != "" {
		result.GitHub.APIURL = override.GitHub.APIURL
	}
	if override.GitHub.Token != "" {
		result.GitHub.Token = override.GitHub.Token
	}
	if override.GitHub.Timeout > 0 {
		result.GitHub.Timeout = override.GitHub.Timeout
	}
	if override.GitHub.RequestsPerSecond > 0 {
		result.GitHub.RequestsPerSecond = override.GitHub.RequestsPerSecond
	}

	// Report
	if override.Report.TopN > 0 {
		result.Report.TopN = override.Report.TopN
	}
	if override.Report.DefaultInput != "" {
		result.Report.DefaultInput = override.Report.DefaultInput
	}

	// Display
	if override.Display.DefaultFormat != "" {
		result.Display.DefaultFormat = override.Display.DefaultFormat
	}
	if override.Display.Color != "" {
		result.Display.Color = override.Display.Color
	}

	// Storage
	if override.Storage.DBPath != "" {
		result.Storage.DBPath = override.Storage.DBPath
	}

	// Server
	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}
	if override.Server.RateLimit > 0 {
		result.Server.RateLimit = override.Server.RateLimit
	}
	if override.Server.Burst > 0 {
		result.Server.Burst = override.Server.Burst
	}
	if override.Server.MaxUploadBytes > 0 {
		result.Server.MaxUploadBytes = override.Server.MaxUploadBytes
	}
	if len(override.Server.TrustedProxies) > 0 {
		result.Server.TrustedProxies = override.Server.TrustedProxies
	}

	// Logging
	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Output != "" {
		result.Logging.Output = override.Logging.Output
	}
	if override.Logging.Format != "" {
		result.Logging.Format = override.Logging.Format
	}

	return &result
}

// applyEnvVars applies environment variable overrides to the configuration.
//
// Supported environment variables:
//   - CLAUDE_CONFIG_DIR: Comma-separated list of Claude directories
//   - YEARINCODE_DB: Path to the leaderboard database
//   - YEARINCODE_LOG_LEVEL: Log level
//   - YEARINCODE_ADDR: HTTP listen address
//   - GITHUB_TOKEN: GitHub REST API token
func (l *loader) applyEnvVars(cfg *Config) *Config {
	result := *cfg

	if envDirs := os.Getenv("CLAUDE_CONFIG_DIR"); envDirs != "" {
		var dirs []string
		for _, dir := range strings.Split(envDirs, ",") {
			if dir = strings.TrimSpace(dir); dir != "" {
				dirs = append(dirs, dir)
			}
		}
		result.ClaudeConfigDirs = dirs
	}

	if dbPath := os.Getenv("YEARINCODE_DB"); dbPath != "" {
		result.Storage.DBPath = dbPath
	}

	if logLevel := os.Getenv("YEARINCODE_LOG_LEVEL"); logLevel != "" {
		result.Logging.Level = strings.ToLower(logLevel)
	}

	if addr := os.Getenv("YEARINCODE_ADDR"); addr != "" {
		result.Server.Addr = addr
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		result.GitHub.Token = token
	}

	return &result
}

// Load is a convenience function that creates a loader and loads configuration.
//
// Equivalent to:
//
//	loader := NewLoader("")
//	return loader.Load()
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// LoadFromFile is a convenience function that loads configuration from a file.
func LoadFromFile(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// Save writes the configuration to a YAML file.
//
// Creates parent directories if they don't exist. The token is never
// written. File is created with 0600 permissions.
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := *cfg
	out.GitHub.Token = ""

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
