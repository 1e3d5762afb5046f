// Package display renders YearStats reports and leaderboard pages.
//
// It supports multiple output formats (table, JSON, simple text). Table
// output can be colored; color never changes the characters written, so
// piped output stays readable.
package display

import (
	"fmt"
	"io"
	"time"

	"github.com/0xmhha/year-in-code/pkg/leaderboard"
	"github.com/0xmhha/year-in-code/pkg/stats"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays reports as aligned tables with a heatmap.
	FormatTable Format = "table"

	// FormatJSON displays reports as JSON.
	FormatJSON Format = "json"

	// FormatSimple displays reports as one line of text.
	FormatSimple Format = "simple"
)

// ParseFormat validates a format name. The empty string means FormatTable.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatSimple:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unknown output format %q: must be table, json, or simple", name)
	}
}

// Formatter writes reports in one format.
type Formatter interface {
	// FormatReport writes a year report.
	//
	// Returns error if s is nil or writing fails.
	FormatReport(w io.Writer, s *stats.YearStats) error

	// FormatLeaderboard writes one leaderboard page.
	FormatLeaderboard(w io.Writer, page *leaderboard.Page) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// Color enables ANSI colors in table output.
	Color bool

	// Compact enables compact output (less whitespace, no heatmap).
	Compact bool

	// Now anchors relative dates. Default: time.Now.
	Now func() time.Time
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
