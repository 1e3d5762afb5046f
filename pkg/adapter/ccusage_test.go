package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/year-in-code/pkg/stats"
)

const ccusageJSON = `{
  "year": 2025,
  "stats": {
    "year": 2025,
    "totalTokens": {"input": 10, "output": 20, "cache_creation": 0, "cache_read": 0, "total": 1000},
    "totalCost": 12.5,
    "activeDays": 3,
    "currentStreak": 2,
    "longestStreak": 7,
    "totalSessions": 9,
    "modelBreakdown": [
      {"model": "claude-opus-4-20250514", "tokens": 600, "percentage": 60, "cost": 10},
      {"model": "claude-sonnet-4-20250514", "tokens": 300, "percentage": 30, "cost": 2},
      {"model": "a", "tokens": 40, "percentage": 4},
      {"model": "b", "tokens": 30, "percentage": 3},
      {"model": "c", "tokens": 20, "percentage": 2},
      {"model": "d", "tokens": 10, "percentage": 1}
    ],
    "dailyActivity": {
      "2025-02-03": {"date": "2025-02-03", "tokens": 500, "level": 4},
      "2025-02-01": {"date": "2025-02-01", "tokens": 100, "level": 1},
      "2025-02-02": {"date": "2025-02-02", "tokens": 400, "level": 3}
    },
    "peakHour": 15,
    "peakDayOfWeek": "Friday"
  }
}`

func TestCcusage(t *testing.T) {
	s, err := Ccusage([]byte(ccusageJSON))
	require.NoError(t, err)

	assert.Equal(t, 2025, s.Year)
	assert.Equal(t, int64(1000), s.TotalTokens)
	assert.InDelta(t, 12.5, s.TotalCost, 1e-9)
	assert.Equal(t, 3, s.ActiveDays)
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 7, s.LongestStreak)
	assert.Equal(t, 9, s.TotalSessions)
	assert.Equal(t, "Friday", s.PeakDay)
	assert.Equal(t, stats.SourceCcusage, s.Source)

	require.NotNil(t, s.PeakHour)
	assert.Equal(t, 15, *s.PeakHour)

	require.Len(t, s.TopModels, 5)
	assert.Equal(t, "opus-4", s.TopModels[0].Label)
	assert.InDelta(t, 60.0, s.TopModels[0].Percentage, 1e-9)
	assert.Equal(t, "c", s.TopModels[4].Label)

	require.Len(t, s.DailyData, 3)
	assert.Equal(t, []string{"2025-02-01", "2025-02-02", "2025-02-03"},
		[]string{s.DailyData[0].Date, s.DailyData[1].Date, s.DailyData[2].Date})
}

func TestCcusageErrors(t *testing.T) {
	_, err := Ccusage([]byte(`{"year": 2025}`))
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Ccusage([]byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCcusagePeakDayFallback(t *testing.T) {
	s, err := Ccusage([]byte(`{"stats":{"year":2025,"dailyActivity":{"2025-06-03":{"date":"2025-06-03","tokens":9}}}}`))
	require.NoError(t, err)

	assert.Equal(t, "Tuesday", s.PeakDay)
	assert.Nil(t, s.PeakHour)
	assert.Empty(t, s.TopModels)
}
