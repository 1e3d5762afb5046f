package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/0xmhha/year-in-code/pkg/leaderboard"
	"github.com/0xmhha/year-in-code/pkg/stats"
)

// levelGlyphs maps heatmap levels to cells, from no activity to MaxLevel.
var levelGlyphs = [stats.MaxLevel + 1]string{"·", "░", "▒", "▓", "█"}

// tableFormatter formats output as tables.
type tableFormatter struct {
	config Config

	titleColor  *color.Color
	headerColor *color.Color
	accentColor *color.Color
	levelColors [stats.MaxLevel + 1]*color.Color
}

func newTableFormatter(cfg Config) *tableFormatter {
	f := &tableFormatter{
		config:      cfg,
		titleColor:  color.New(color.FgCyan, color.Bold),
		headerColor: color.New(color.Bold),
		accentColor: color.New(color.FgYellow),
		levelColors: [stats.MaxLevel + 1]*color.Color{
			color.New(color.FgHiBlack),
			color.New(color.FgGreen),
			color.New(color.FgHiGreen),
			color.New(color.FgGreen, color.Bold),
			color.New(color.FgHiGreen, color.Bold),
		},
	}

	all := append([]*color.Color{f.titleColor, f.headerColor, f.accentColor}, f.levelColors[:]...)
	for _, c := range all {
		if cfg.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// FormatReport implements Formatter.FormatReport.
func (f *tableFormatter) FormatReport(w io.Writer, s *stats.YearStats) error {
	if s == nil {
		return errNoReport
	}
	github := s.Source == stats.SourceGitHub

	if err := f.writeHeader(w, fmt.Sprintf("Your %d in Code", s.Year)); err != nil {
		return err
	}
	if !github {
		if _, err := fmt.Fprintf(w, "%s\n\n", f.accentColor.Sprint(stats.Tagline(s.TotalTokens))); err != nil {
			return err
		}
	}

	if err := f.writeTable(w, []string{"Metric", "Value"}, f.summaryRows(s)); err != nil {
		return err
	}

	if len(s.TopModels) > 0 {
		if err := f.writeRanking(w, s, github); err != nil {
			return err
		}
	}

	if f.config.Compact {
		return nil
	}
	return f.writeHeatmap(w, s)
}

func (f *tableFormatter) summaryRows(s *stats.YearStats) [][]string {
	github := s.Source == stats.SourceGitHub

	var rows [][]string
	if github {
		rows = append(rows, []string{"Contributions", formatThousands(s.TotalTokens)})
	} else {
		rows = append(rows,
			[]string{"Total Tokens", FormatNumber(s.TotalTokens)},
			[]string{"Total Cost", FormatCost(s.TotalCost)},
		)
	}

	rows = append(rows,
		[]string{"Active Days", strconv.Itoa(s.ActiveDays)},
		[]string{"Current Streak", plural(s.CurrentStreak, "day")},
		[]string{"Longest Streak", plural(s.LongestStreak, "day")},
	)
	if !github {
		rows = append(rows, []string{"Sessions", formatThousands(int64(s.TotalSessions))})
	}
	rows = append(rows, []string{"Peak Day", s.PeakDay})

	if s.PeakHour != nil {
		rows = append(rows, []string{"Peak Hour", fmt.Sprintf("%02d:00", *s.PeakHour)})
	}
	if s.MostActiveMonth != "" {
		rows = append(rows, []string{"Most Active Month", s.MostActiveMonth})
	}
	if s.MostActiveDay != "" {
		rows = append(rows, []string{"Most Active Day", s.MostActiveDay})
	}
	if s.TotalStars != nil {
		rows = append(rows, []string{"Total Stars", formatThousands(*s.TotalStars)})
	}
	if s.YearsOfCoding != nil {
		rows = append(rows, []string{"Years Of Coding", plural(*s.YearsOfCoding, "year")})
	}
	if s.FirstContributionDate != nil {
		rows = append(rows, []string{"First Contribution", *s.FirstContributionDate})
	}
	if !github && len(s.DailyData) > 0 {
		ago := stats.JoinedDaysAgo(s, f.config.now())
		rows = append(rows, []string{"First Active",
			fmt.Sprintf("%s (%s ago)", s.DailyData[0].Date, plural(ago, "day"))})
	}

	return rows
}

func (f *tableFormatter) writeRanking(w io.Writer, s *stats.YearStats, github bool) error {
	title, label, unit := "Top Models", "Model", "Tokens"
	if github {
		title, label, unit = "Top Languages", "Language", "Contributions"
	}

	if err := f.writeHeader(w, title); err != nil {
		return err
	}

	rows := make([][]string, len(s.TopModels))
	for i, e := range s.TopModels {
		count := FormatNumber(e.Count)
		if github {
			count = formatThousands(e.Count)
		}
		rows[i] = []string{
			fmt.Sprintf("#%d", i+1),
			e.Label,
			count,
			formatPercent(e.Percentage),
		}
	}

	return f.writeTable(w, []string{"Rank", label, unit, "Share"}, rows)
}

// writeHeatmap writes one row per month, one glyph per day.
func (f *tableFormatter) writeHeatmap(w io.Writer, s *stats.YearStats) error {
	if err := f.writeHeader(w, "Activity"); err != nil {
		return err
	}

	for _, cells := range stats.Heatmap(s) {
		if len(cells) == 0 {
			continue
		}
		month, _ := stats.MonthName(cells[0].Date)

		var b strings.Builder
		for _, c := range cells {
			b.WriteString(f.levelColors[c.Level].Sprint(levelGlyphs[c.Level]))
		}
		if _, err := fmt.Fprintf(w, "%-4s%s\n", month[:3], b.String()); err != nil {
			return err
		}
	}

	var legend strings.Builder
	for level, glyph := range levelGlyphs {
		legend.WriteString(f.levelColors[level].Sprint(glyph))
	}
	_, err := fmt.Fprintf(w, "\n%-4s%s more\n\n", "less", legend.String())
	return err
}

// FormatLeaderboard implements Formatter.FormatLeaderboard.
func (f *tableFormatter) FormatLeaderboard(w io.Writer, page *leaderboard.Page) error {
	if page == nil {
		page = &leaderboard.Page{}
	}

	title := fmt.Sprintf("Leaderboard %d by %s", page.Year, page.Category)
	if err := f.writeHeader(w, title); err != nil {
		return err
	}

	header := []string{"Rank", "Username", "Contributions", "Streak", "Years", "Stars", "Languages", "Verified"}
	rows := make([][]string, len(page.Entries))
	for i, e := range page.Entries {
		verified := ""
		if e.HasVerifiedBadge {
			verified = "yes"
		}
		rows[i] = []string{
			fmt.Sprintf("#%d", i+1),
			e.Username,
			formatThousands(e.TotalContributions),
			strconv.Itoa(e.LongestStreak),
			strconv.Itoa(e.YearsInCode),
			formatThousands(e.TotalStars),
			strings.Join(e.TopLanguages, ", "),
			verified,
		}
	}

	if err := f.writeTable(w, header, rows); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Showing %d of %d entries\n", len(page.Entries), page.TotalCount)
	return err
}

// writeHeader writes a section header.
func (f *tableFormatter) writeHeader(w io.Writer, title string) error {
	if f.config.Compact {
		_, err := fmt.Fprintf(w, "%s\n", f.titleColor.Sprint(title))
		return err
	}

	underline := strings.Repeat("=", utf8.RuneCountInString(title))
	_, err := fmt.Fprintf(w, "\n%s\n%s\n\n", f.titleColor.Sprint(title), underline)
	return err
}

// writeTable writes a formatted table.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if err := f.writeRow(w, header, widths, f.headerColor); err != nil {
		return err
	}

	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths, nil); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if err := f.writeRow(w, row, widths, nil); err != nil {
			return err
		}
	}

	if !f.config.Compact {
		_, err := fmt.Fprintln(w)
		return err
	}

	return nil
}

// writeRow writes a single table row. Cells are padded before coloring so
// escape codes do not skew the alignment.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int, c *color.Color) error {
	sep := "  "
	if f.config.Compact {
		sep = " "
	}

	parts := make([]string, len(cells))
	for i, cell := range cells {
		padded := fmt.Sprintf("%-*s", widths[i], cell)
		if c != nil {
			padded = c.Sprint(padded)
		}
		parts[i] = padded
	}

	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, sep), " "))
	return err
}
