package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrNoClaudeDirs is returned when no Claude config directories are specified.
	ErrNoClaudeDirs = errors.New("no Claude config directories specified")

	// ErrInvalidTimeout is returned when the GitHub timeout is <= 0.
	ErrInvalidTimeout = errors.New("invalid GitHub timeout: must be > 0")

	// ErrInvalidRequestRate is returned when the GitHub request rate is <= 0.
	ErrInvalidRequestRate = errors.New("invalid GitHub requests per second: must be > 0")

	// ErrInvalidTopN is returned when the ranking size is <= 0.
	ErrInvalidTopN = errors.New("invalid report top_n: must be > 0")

	// ErrInvalidInputFormat is returned when the default input is not recognized.
	ErrInvalidInputFormat = errors.New("invalid input format: must be auto, native, ccusage, or daily")

	// ErrInvalidDisplayFormat is returned when the output format is not recognized.
	ErrInvalidDisplayFormat = errors.New("invalid display format: must be table, json, or simple")

	// ErrInvalidColorMode is returned when the color mode is not recognized.
	ErrInvalidColorMode = errors.New("invalid color mode: must be auto, always, or never")

	// ErrEmptyDBPath is returned when no database path is set.
	ErrEmptyDBPath = errors.New("storage db_path cannot be empty")

	// ErrEmptyServerAddr is returned when no listen address is set.
	ErrEmptyServerAddr = errors.New("server addr cannot be empty")

	// ErrInvalidRateLimit is returned when the server rate limit or burst is <= 0.
	ErrInvalidRateLimit = errors.New("invalid server rate limit: rate_limit and burst must be > 0")

	// ErrInvalidUploadLimit is returned when the upload cap is <= 0.
	ErrInvalidUploadLimit = errors.New("invalid server max_upload_bytes: must be > 0")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)
