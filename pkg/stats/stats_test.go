package stats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeakDay(t *testing.T) {
	tests := []struct {
		name string
		days []Day
		want string
	}{
		{name: "empty", want: UnknownDay},
		{
			name: "single tuesday",
			days: []Day{{Date: "2025-06-03", Tokens: 10}},
			want: "Tuesday",
		},
		{
			name: "highest wins",
			days: []Day{{Date: "2025-06-02", Tokens: 5}, {Date: "2025-06-07", Tokens: 50}},
			want: "Saturday",
		},
		{
			name: "first wins ties",
			days: []Day{{Date: "2025-06-02", Tokens: 5}, {Date: "2025-06-03", Tokens: 5}},
			want: "Monday",
		},
		{
			name: "unparsable date",
			days: []Day{{Date: "not-a-date", Tokens: 5}},
			want: UnknownDay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PeakDay(tt.days))
		})
	}
}

func TestActiveDays(t *testing.T) {
	days := []Day{{Date: "2025-01-01", Tokens: 1}, {Date: "2025-01-02"}, {Date: "2025-01-03", Tokens: 3}}
	assert.Equal(t, 2, ActiveDays(days))
}

func TestNames(t *testing.T) {
	name, ok := WeekdayName("2025-01-01")
	assert.True(t, ok)
	assert.Equal(t, "Wednesday", name)

	month, ok := MonthName("2025-02-14")
	assert.True(t, ok)
	assert.Equal(t, "February", month)

	_, ok = MonthName("2025-2-14")
	assert.False(t, ok)
}

func TestHeatmap(t *testing.T) {
	s := &YearStats{
		Year: 2024,
		DailyData: []Day{
			{Date: "2024-01-01", Tokens: 100},
			{Date: "2024-01-02", Tokens: 26},
			{Date: "2024-02-29", Tokens: 1},
			{Date: "2024-03-01", Tokens: 0},
		},
	}

	months := Heatmap(s)
	assert.Len(t, months[0], 31)
	assert.Len(t, months[1], 29)
	assert.Len(t, months[11], 31)

	assert.Equal(t, Cell{Date: "2024-01-01", Level: 4}, months[0][0])
	assert.Equal(t, 2, months[0][1].Level)
	assert.Equal(t, 0, months[0][2].Level)
	assert.Equal(t, Cell{Date: "2024-02-29", Level: 1}, months[1][28])
	assert.Equal(t, 0, months[2][0].Level)
}

func TestJoinedDaysAgo(t *testing.T) {
	s := &YearStats{DailyData: []Day{{Date: "2025-01-01"}}}
	now := time.Date(2025, 1, 11, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 11, JoinedDaysAgo(s, now))
	assert.Zero(t, JoinedDaysAgo(&YearStats{}, now))
}

func TestTagline(t *testing.T) {
	assert.Contains(t, Tagline(2_000_000), "Millions")
	assert.Contains(t, Tagline(1_000), "Thousands")
	assert.Contains(t, Tagline(12), "Hundreds")
}

func TestYearStatsJSONOmitsAbsentOptionals(t *testing.T) {
	data, err := json.Marshal(YearStats{Year: 2025, PeakDay: UnknownDay, Source: SourceNative})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "totalTokens")
	assert.Contains(t, raw, "dailyData")
	assert.NotContains(t, raw, "peakHour")
	assert.NotContains(t, raw, "totalStars")
	assert.NotContains(t, raw, "yearsOfCoding")
}
