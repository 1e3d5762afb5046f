package parser

import (
	"errors"
	"fmt"
)

// Errors returned while normalizing records. All of them mark a record as
// skippable; none of them abort a batch.
var (
	// ErrMissingTimestamp is returned when no timestamp accessor yields a
	// non-empty string.
	ErrMissingTimestamp = errors.New("record has no timestamp")

	// ErrInvalidDate is returned when the timestamp has no YYYY-MM-DD prefix.
	ErrInvalidDate = errors.New("timestamp has no recognizable date")

	// ErrMalformedJSON is returned when a line is not a JSON object.
	ErrMalformedJSON = errors.New("malformed JSON line")

	// ErrFileTooLarge is returned when a file exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("file size exceeds maximum limit")
)

// ParseError describes a line that was skipped.
type ParseError struct {
	Line int    // 1-indexed line number
	Data string // offending line, truncated in Error()
	Err  error
}

func (e *ParseError) Error() string {
	const maxLen = 100
	data := e.Data
	if len(data) > maxLen {
		data = data[:maxLen] + "..."
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s: %v", e.Line, data, e.Err)
	}
	return fmt.Sprintf("parse error: %s: %v", data, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsSkippable reports whether err only disqualifies a single record.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrMissingTimestamp) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrMalformedJSON)
}
