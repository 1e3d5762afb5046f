// Package config provides configuration management for yearincode.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Configuration file
// 4. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Claude dirs: %v\n", cfg.ClaudeConfigDirs)
package config

import (
	"time"
)

// Config represents the complete application configuration.
//
// Invariants:
// - ClaudeConfigDirs must have at least one directory
// - Report.TopN must be > 0
// - GitHub.Timeout and GitHub.RequestsPerSecond must be > 0
// - Server.RateLimit, Server.Burst and Server.MaxUploadBytes must be > 0.
type Config struct {
	// Claude data directories scanned when no input is given
	ClaudeConfigDirs []string `yaml:"claude_config_dirs"`

	// GitHub data sources
	GitHub GitHubConfig `yaml:"github"`

	// Report computation settings
	Report ReportConfig `yaml:"report"`

	// Display settings
	Display DisplayConfig `yaml:"display"`

	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// HTTP API settings
	Server ServerConfig `yaml:"server"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// GitHubConfig contains GitHub client settings.
type GitHubConfig struct {
	// Base URL of the jogruber-compatible contributions API
	ContributionsURL string `yaml:"contributions_url"`

	// Base URL of the GitHub REST API
	APIURL string `yaml:"api_url"`

	// Optional token for the REST API. Prefer the GITHUB_TOKEN variable.
	Token string `yaml:"token,omitempty"`

	// Per-request timeout
	Timeout time.Duration `yaml:"timeout"`

	// Client-side request cap
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// ReportConfig contains report settings.
type ReportConfig struct {
	// Number of ranked models or languages
	TopN int `yaml:"top_n"`

	// Input format used when none is given (auto, native, ccusage, daily)
	DefaultInput string `yaml:"default_input"`
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	// Default output format (table, json, simple)
	DefaultFormat string `yaml:"default_format"`

	// Color mode (auto, always, never). auto colors only terminals.
	Color string `yaml:"color"`
}

// StorageConfig contains storage-related settings.
type StorageConfig struct {
	// Path to the leaderboard BoltDB file
	DBPath string `yaml:"db_path"`
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	// Listen address
	Addr string `yaml:"addr"`

	// Requests per second per client IP
	RateLimit float64 `yaml:"rate_limit"`

	// Burst size per client IP
	Burst int `yaml:"burst"`

	// Maximum accepted upload size
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Proxy IPs or CIDRs whose X-Forwarded-For header is believed
	TrustedProxies []string `yaml:"trusted_proxies,omitempty"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// Validate checks if the configuration satisfies all invariants.
//
// Thread-safety: This method is read-only and thread-safe.
func (c *Config) Validate() error {
	if len(c.ClaudeConfigDirs) == 0 {
		return ErrNoClaudeDirs
	}

	if c.GitHub.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.GitHub.RequestsPerSecond <= 0 {
		return ErrInvalidRequestRate
	}

	if c.Report.TopN <= 0 {
		return ErrInvalidTopN
	}
	validInputs := map[string]bool{
		"auto":    true,
		"native":  true,
		"ccusage": true,
		"daily":   true,
	}
	if !validInputs[c.Report.DefaultInput] {
		return ErrInvalidInputFormat
	}

	validFormats := map[string]bool{
		"table":  true,
		"json":   true,
		"simple": true,
	}
	if !validFormats[c.Display.DefaultFormat] {
		return ErrInvalidDisplayFormat
	}
	validColors := map[string]bool{
		"auto":   true,
		"always": true,
		"never":  true,
	}
	if !validColors[c.Display.Color] {
		return ErrInvalidColorMode
	}

	if c.Storage.DBPath == "" {
		return ErrEmptyDBPath
	}

	if c.Server.Addr == "" {
		return ErrEmptyServerAddr
	}
	if c.Server.RateLimit <= 0 || c.Server.Burst <= 0 {
		return ErrInvalidRateLimit
	}
	if c.Server.MaxUploadBytes <= 0 {
		return ErrInvalidUploadLimit
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		ClaudeConfigDirs: defaultClaudeDirs(),
		GitHub: GitHubConfig{
			ContributionsURL:  "https://github-contributions-api.jogruber.de",
			APIURL:            "https://api.github.com",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 5,
		},
		Report: ReportConfig{
			TopN:         5,
			DefaultInput: "auto",
		},
		Display: DisplayConfig{
			DefaultFormat: "table",
			Color:         "auto",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			RateLimit:      2,
			Burst:          10,
			MaxUploadBytes: 50 << 20,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Output: "stderr",
			Format: "text",
		},
	}
}
