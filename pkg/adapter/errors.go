package adapter

import "errors"

var (
	// ErrEmptyInput is returned when a structurally valid input carries no
	// data to report on.
	ErrEmptyInput = errors.New("input contains no usage data")

	// ErrInvalidInput is returned when an input is not the JSON shape its
	// format requires.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamFetch wraps a failure of the primary GitHub fetch.
	ErrUpstreamFetch = errors.New("failed to fetch contribution history")

	// ErrUnknownFormat is returned by ParseFormat for unsupported names.
	ErrUnknownFormat = errors.New("unknown input format")
)
