package display

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/0xmhha/year-in-code/pkg/leaderboard"
	"github.com/0xmhha/year-in-code/pkg/ranking"
	"github.com/0xmhha/year-in-code/pkg/stats"
)

func fixedNow() time.Time {
	return time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
}

func sampleReport() *stats.YearStats {
	hour := 14
	return &stats.YearStats{
		Year:          2025,
		TotalTokens:   1_500_000,
		TotalCost:     12.5,
		ActiveDays:    2,
		CurrentStreak: 1,
		LongestStreak: 2,
		TotalSessions: 3,
		TopModels: []ranking.Entry{
			{Label: "sonnet-4", Count: 900_000, Percentage: 60},
			{Label: "opus-4", Count: 600_000, Percentage: 40},
		},
		DailyData: []stats.Day{
			{Date: "2025-01-01", Tokens: 1_000_000, Cost: 10},
			{Date: "2025-01-02", Tokens: 500_000, Cost: 2.5},
		},
		PeakDay:  "Wednesday",
		PeakHour: &hour,
		Source:   stats.SourceNative,
	}
}

func githubReport() *stats.YearStats {
	stars := int64(1234)
	years := 4
	first := "2021-05-01"
	return &stats.YearStats{
		Year:                  2025,
		TotalTokens:           1500,
		ActiveDays:            200,
		LongestStreak:         30,
		TopModels:             []ranking.Entry{{Label: "Go", Count: 900, Percentage: 60}},
		DailyData:             []stats.Day{{Date: "2025-03-01", Tokens: 12}},
		PeakDay:               "Saturday",
		MostActiveMonth:       "March",
		MostActiveDay:         "Tuesday",
		TotalStars:            &stars,
		YearsOfCoding:         &years,
		FirstContributionDate: &first,
		Source:                stats.SourceGitHub,
	}
}

func samplePage() *leaderboard.Page {
	return &leaderboard.Page{
		Year:       2025,
		Category:   leaderboard.CategoryContributions,
		TotalCount: 5,
		Entries: []leaderboard.Entry{
			{Username: "alice", TotalContributions: 1234, LongestStreak: 10, YearsInCode: 5,
				TopLanguages: []string{"Go", "Rust"}, HasVerifiedBadge: true},
			{Username: "bob", TotalContributions: 99, LongestStreak: 3, YearsInCode: 1},
		},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config Config
		want   string // Type name
	}{
		{name: "default format (table)", config: Config{}, want: "*display.tableFormatter"},
		{name: "table format", config: Config{Format: FormatTable}, want: "*display.tableFormatter"},
		{name: "json format", config: Config{Format: FormatJSON}, want: "*display.jsonFormatter"},
		{name: "simple format", config: Config{Format: FormatSimple}, want: "*display.simpleFormatter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fmt.Sprintf("%T", New(tt.config))
			if got != tt.want {
				t.Errorf("New() type = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "table", "json", "simple"} {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", name, err)
		}
	}
	if _, err := ParseFormat("live"); err == nil {
		t.Error("ParseFormat(live) expected error")
	}
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1500, "1.5K"},
		{1_000_000, "1.0M"},
		{2_340_000, "2.3M"},
		{2_500_000_000, "2.5B"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCost(t *testing.T) {
	t.Parallel()

	if got := FormatCost(12.5); got != "$12.50" {
		t.Errorf("FormatCost(12.5) = %q", got)
	}
	if got := FormatCost(0); got != "$0.00" {
		t.Errorf("FormatCost(0) = %q", got)
	}
}

func TestFormatThousands(t *testing.T) {
	t.Parallel()

	tests := map[int64]string{
		0:         "0",
		999:       "999",
		1000:      "1,000",
		1_234_567: "1,234,567",
	}
	for in, want := range tests {
		if got := formatThousands(in); got != want {
			t.Errorf("formatThousands(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestTableFormatter_FormatReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := New(Config{Format: FormatTable, Now: fixedNow})
	if err := f.FormatReport(&buf, sampleReport()); err != nil {
		t.Fatalf("FormatReport() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Your 2025 in Code",
		stats.Tagline(1_500_000),
		"Total Tokens",
		"1.5M",
		"$12.50",
		"Current Streak  1 day",
		"Longest Streak  2 days",
		"Peak Hour       14:00",
		"First Active    2025-01-01 (10 days ago)",
		"Top Models",
		"#1    sonnet-4  900.0K  60.0%",
		"Activity",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	if strings.Contains(out, "\x1b[") {
		t.Error("output contains escape codes with color disabled")
	}

	var jan string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Jan ") {
			jan = line
		}
	}
	if !strings.HasPrefix(jan, "Jan "+levelGlyphs[4]+levelGlyphs[2]+levelGlyphs[0]) {
		t.Errorf("January heatmap row = %q", jan)
	}
}

func TestTableFormatter_GitHubReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := New(Config{}).FormatReport(&buf, githubReport()); err != nil {
		t.Fatalf("FormatReport() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Contributions", "1,500", "Top Languages", "Years Of Coding", "4 years", "1,234", "2021-05-01", "March"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	for _, unwanted := range []string{"Total Cost", "Sessions", "Agents run on tokens"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output should not contain %q", unwanted)
		}
	}
}

func TestTableFormatter_Color(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := New(Config{Color: true}).FormatReport(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Error("expected escape codes with color enabled")
	}
}

func TestTableFormatter_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := New(Config{Compact: true}).FormatReport(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "Activity") {
		t.Error("compact output should omit the heatmap")
	}
}

func TestSimpleFormatter_FormatReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := New(Config{Format: FormatSimple}).FormatReport(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}

	want := "2025: 1.5M tokens | $12.50 | 2 active days | streak 1 (longest 2) | top sonnet-4 (60.0%)\n"
	if buf.String() != want {
		t.Errorf("FormatReport() = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := New(Config{Format: FormatSimple}).FormatReport(&buf, githubReport()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "2025: 1.5K contributions | 200 active days") {
		t.Errorf("github line = %q", buf.String())
	}
}

func TestJSONFormatter_FormatReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := New(Config{Format: FormatJSON}).FormatReport(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["totalTokens"] != float64(1_500_000) {
		t.Errorf("totalTokens = %v", decoded["totalTokens"])
	}
	if decoded["peakHour"] != float64(14) {
		t.Errorf("peakHour = %v", decoded["peakHour"])
	}
}

func TestFormatReportNil(t *testing.T) {
	t.Parallel()

	for _, format := range []Format{FormatTable, FormatJSON, FormatSimple} {
		if err := New(Config{Format: format}).FormatReport(&bytes.Buffer{}, nil); err == nil {
			t.Errorf("%s: expected error for nil report", format)
		}
	}
}

func TestFormatLeaderboard(t *testing.T) {
	t.Parallel()

	t.Run("table", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := New(Config{}).FormatLeaderboard(&buf, samplePage()); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"Leaderboard 2025 by contributions", "alice", "1,234", "Go, Rust", "yes", "Showing 2 of 5 entries"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q\n%s", want, out)
			}
		}
	})

	t.Run("table empty", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := New(Config{}).FormatLeaderboard(&buf, &leaderboard.Page{Year: 2025}); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "No data") {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("simple", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := New(Config{Format: FormatSimple}).FormatLeaderboard(&buf, samplePage()); err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 || lines[0] != "#1: alice - 1,234 contributions, 10 day streak, 5 years, 0 stars" {
			t.Errorf("lines = %q", lines)
		}
	})

	t.Run("json nil page", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := New(Config{Format: FormatJSON, Compact: true}).FormatLeaderboard(&buf, nil); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), `"entries":[]`) {
			t.Errorf("output = %q", buf.String())
		}
	})
}
