package display

import (
	"encoding/json"
	"io"

	"github.com/0xmhha/year-in-code/pkg/leaderboard"
	"github.com/0xmhha/year-in-code/pkg/stats"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

// FormatReport implements Formatter.FormatReport.
func (f *jsonFormatter) FormatReport(w io.Writer, s *stats.YearStats) error {
	if s == nil {
		return errNoReport
	}
	return f.encode(w, s)
}

// FormatLeaderboard implements Formatter.FormatLeaderboard.
func (f *jsonFormatter) FormatLeaderboard(w io.Writer, page *leaderboard.Page) error {
	out := leaderboard.Page{}
	if page != nil {
		out = *page
	}
	if out.Entries == nil {
		out.Entries = []leaderboard.Entry{}
	}
	return f.encode(w, out)
}

func (f *jsonFormatter) encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
