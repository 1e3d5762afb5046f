package adapter

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/0xmhha/year-in-code/pkg/ranking"
	"github.com/0xmhha/year-in-code/pkg/stats"
)

// ccusageReport is the aggregated JSON written by ccusage.
type ccusageReport struct {
	Year  int           `json:"year"`
	Stats *ccusageStats `json:"stats"`
}

type ccusageStats struct {
	Year        int `json:"year"`
	TotalTokens struct {
		Input         int64 `json:"input"`
		Output        int64 `json:"output"`
		CacheCreation int64 `json:"cache_creation"`
		CacheRead     int64 `json:"cache_read"`
		Total         int64 `json:"total"`
	} `json:"totalTokens"`
	TotalCost      float64 `json:"totalCost"`
	ActiveDays     int     `json:"activeDays"`
	CurrentStreak  int     `json:"currentStreak"`
	LongestStreak  int     `json:"longestStreak"`
	TotalSessions  int     `json:"totalSessions"`
	ModelBreakdown []struct {
		Model      string  `json:"model"`
		Tokens     int64   `json:"tokens"`
		Percentage float64 `json:"percentage"`
		Cost       float64 `json:"cost"`
	} `json:"modelBreakdown"`
	DailyActivity map[string]struct {
		Date   string `json:"date"`
		Tokens int64  `json:"tokens"`
		Level  int    `json:"level"`
	} `json:"dailyActivity"`
	PeakHour      *int   `json:"peakHour"`
	PeakDayOfWeek string `json:"peakDayOfWeek"`
}

// Ccusage translates a ccusage aggregated report. Streaks, percentages and
// peaks are taken as reported; only labels are cleaned.
func Ccusage(data []byte) (*stats.YearStats, error) {
	var report ccusageReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("%w: ccusage report: %v", ErrInvalidInput, err)
	}
	s := report.Stats
	if s == nil {
		return nil, fmt.Errorf("%w: ccusage report has no stats", ErrEmptyInput)
	}

	days := make([]stats.Day, 0, len(s.DailyActivity))
	for key, day := range s.DailyActivity {
		date := day.Date
		if date == "" {
			date = key
		}
		days = append(days, stats.Day{Date: date, Tokens: day.Tokens})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	limit := len(s.ModelBreakdown)
	if limit > ranking.DefaultLimit {
		limit = ranking.DefaultLimit
	}
	top := make([]ranking.Entry, 0, limit)
	for _, m := range s.ModelBreakdown[:limit] {
		top = append(top, ranking.Entry{
			Label:      ranking.CleanModelLabel(m.Model),
			Count:      m.Tokens,
			Percentage: m.Percentage,
		})
	}

	year := s.Year
	if year == 0 {
		year = report.Year
	}

	peakDay := s.PeakDayOfWeek
	if peakDay == "" {
		peakDay = stats.PeakDay(days)
	}

	return &stats.YearStats{
		Year:          year,
		TotalTokens:   s.TotalTokens.Total,
		TotalCost:     s.TotalCost,
		ActiveDays:    s.ActiveDays,
		CurrentStreak: s.CurrentStreak,
		LongestStreak: s.LongestStreak,
		TotalSessions: s.TotalSessions,
		TopModels:     top,
		DailyData:     days,
		PeakDay:       peakDay,
		PeakHour:      s.PeakHour,
		Source:        stats.SourceCcusage,
	}, nil
}
