package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/0xmhha/year-in-code/pkg/leaderboard"
	"github.com/0xmhha/year-in-code/pkg/stats"
)

// simpleFormatter formats output as simple text.
type simpleFormatter struct {
	config Config
}

// FormatReport implements Formatter.FormatReport.
func (f *simpleFormatter) FormatReport(w io.Writer, s *stats.YearStats) error {
	if s == nil {
		return errNoReport
	}

	unit := "tokens"
	if s.Source == stats.SourceGitHub {
		unit = "contributions"
	}

	parts := []string{
		fmt.Sprintf("%d: %s %s", s.Year, FormatNumber(s.TotalTokens), unit),
	}
	if s.Source != stats.SourceGitHub {
		parts = append(parts, FormatCost(s.TotalCost))
	}
	parts = append(parts,
		plural(s.ActiveDays, "active day"),
		fmt.Sprintf("streak %d (longest %d)", s.CurrentStreak, s.LongestStreak),
	)
	if len(s.TopModels) > 0 {
		top := s.TopModels[0]
		parts = append(parts, fmt.Sprintf("top %s (%s)", top.Label, formatPercent(top.Percentage)))
	}

	_, err := fmt.Fprintln(w, strings.Join(parts, " | "))
	return err
}

// FormatLeaderboard implements Formatter.FormatLeaderboard.
func (f *simpleFormatter) FormatLeaderboard(w io.Writer, page *leaderboard.Page) error {
	if page == nil {
		return nil
	}

	for i, e := range page.Entries {
		if _, err := fmt.Fprintf(w, "#%d: %s - %s contributions, %d day streak, %d years, %s stars\n",
			i+1,
			e.Username,
			formatThousands(e.TotalContributions),
			e.LongestStreak,
			e.YearsInCode,
			formatThousands(e.TotalStars)); err != nil {
			return err
		}
	}

	return nil
}
