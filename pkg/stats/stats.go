// Package stats defines YearStats, the report every adapter produces, and the
// calendar helpers presentation layers derive from it.
package stats

import (
	"math"
	"time"

	"github.com/0xmhha/year-in-code/pkg/ranking"
)

const dateLayout = "2006-01-02"

// UnknownDay is the peak day reported when there is no activity.
const UnknownDay = "Unknown"

// Source names the adapter that produced a report.
type Source string

// Report sources.
const (
	SourceNative  Source = "native"
	SourceCcusage Source = "ccusage"
	SourceDaily   Source = "daily"
	SourceGitHub  Source = "github"
)

// Day is one entry of the daily series.
type Day struct {
	Date   string           `json:"date"`
	Tokens int64            `json:"tokens"`
	Cost   float64          `json:"cost"`
	Models map[string]int64 `json:"models,omitempty"`
}

// YearStats is the normalized summary of one year of activity.
//
// For GitHub reports "tokens" are contributions and TopModels holds
// languages.
type YearStats struct {
	Year          int             `json:"year"`
	TotalTokens   int64           `json:"totalTokens"`
	TotalCost     float64         `json:"totalCost"`
	ActiveDays    int             `json:"activeDays"`
	CurrentStreak int             `json:"currentStreak"`
	LongestStreak int             `json:"longestStreak"`
	TotalSessions int             `json:"totalSessions"`
	TopModels     []ranking.Entry `json:"topModels"`
	DailyData     []Day           `json:"dailyData"`
	PeakDay       string          `json:"peakDay"`

	PeakHour              *int    `json:"peakHour,omitempty"`
	MostActiveMonth       string  `json:"mostActiveMonth,omitempty"`
	MostActiveDay         string  `json:"mostActiveDay,omitempty"`
	TotalStars            *int64  `json:"totalStars,omitempty"`
	YearsOfCoding         *int    `json:"yearsOfCoding,omitempty"`
	FirstContributionDate *string `json:"firstContributionDate,omitempty"`

	Source Source `json:"source"`
}

// PeakDay returns the weekday name of the day with the most tokens. The
// earliest day wins ties; UnknownDay is returned when days is empty or no
// date parses.
func PeakDay(days []Day) string {
	if len(days) == 0 {
		return UnknownDay
	}
	peak := days[0]
	for _, d := range days[1:] {
		if d.Tokens > peak.Tokens {
			peak = d
		}
	}
	name, ok := WeekdayName(peak.Date)
	if !ok {
		return UnknownDay
	}
	return name
}

// ActiveDays counts days with tokens > 0.
func ActiveDays(days []Day) int {
	n := 0
	for _, d := range days {
		if d.Tokens > 0 {
			n++
		}
	}
	return n
}

// WeekdayName returns the English weekday of an ISO date.
func WeekdayName(date string) (string, bool) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", false
	}
	return t.Weekday().String(), true
}

// MonthName returns the English month of an ISO date.
func MonthName(date string) (string, bool) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", false
	}
	return t.Month().String(), true
}

// Cell is one heatmap day.
type Cell struct {
	Date  string `json:"date"`
	Level int    `json:"level"`
}

// MaxLevel is the highest heatmap intensity.
const MaxLevel = 4

// Heatmap lays out s.Year as twelve month columns. A day's level is
// ceil(tokens/max*MaxLevel), 0 without activity.
func Heatmap(s *YearStats) [12][]Cell {
	var months [12][]Cell
	if s == nil {
		return months
	}

	var maxTokens int64
	for _, d := range s.DailyData {
		if d.Tokens > maxTokens {
			maxTokens = d.Tokens
		}
	}

	levels := make(map[string]int, len(s.DailyData))
	for _, d := range s.DailyData {
		if d.Tokens > 0 && maxTokens > 0 {
			levels[d.Date] = int(math.Ceil(float64(d.Tokens) / float64(maxTokens) * MaxLevel))
		}
	}

	for m := 0; m < 12; m++ {
		first := time.Date(s.Year, time.Month(m+1), 1, 0, 0, 0, 0, time.UTC)
		n := first.AddDate(0, 1, -1).Day()
		cells := make([]Cell, 0, n)
		for day := 0; day < n; day++ {
			date := first.AddDate(0, 0, day).Format(dateLayout)
			cells = append(cells, Cell{Date: date, Level: levels[date]})
		}
		months[m] = cells
	}
	return months
}

// JoinedDaysAgo returns whole days, rounded up, between the first day of the
// series and now. 0 for an empty series.
func JoinedDaysAgo(s *YearStats, now time.Time) int {
	if s == nil || len(s.DailyData) == 0 {
		return 0
	}
	first, err := time.Parse(dateLayout, s.DailyData[0].Date)
	if err != nil {
		return 0
	}
	return int(math.Ceil(math.Abs(now.Sub(first).Hours()) / 24))
}

// Tagline returns the headline shown above a token report.
func Tagline(totalTokens int64) string {
	switch {
	case totalTokens >= 1_000_000:
		return "Agents run on tokens. Millions of them were yours."
	case totalTokens >= 1_000:
		return "Agents run on tokens. Thousands of them were yours."
	default:
		return "Agents run on tokens. Hundreds of them were yours."
	}
}
