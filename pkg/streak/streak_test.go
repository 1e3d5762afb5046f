package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLongest(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  Result
	}{
		{
			name: "empty",
			want: Result{},
		},
		{
			name:  "single day",
			dates: []string{"2025-05-05"},
			want:  Result{Longest: 1, Final: 1, Last: "2025-05-05"},
		},
		{
			name:  "run then gap",
			dates: []string{"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-10"},
			want:  Result{Longest: 3, Final: 1, Last: "2025-01-10"},
		},
		{
			name:  "unsorted with duplicates",
			dates: []string{"2025-01-03", "2025-01-01", "2025-01-02", "2025-01-02"},
			want:  Result{Longest: 3, Final: 3, Last: "2025-01-03"},
		},
		{
			name:  "across month and leap day",
			dates: []string{"2024-02-28", "2024-02-29", "2024-03-01"},
			want:  Result{Longest: 3, Final: 3, Last: "2024-03-01"},
		},
		{
			name:  "later run longer",
			dates: []string{"2025-01-01", "2025-01-05", "2025-01-06"},
			want:  Result{Longest: 2, Final: 2, Last: "2025-01-06"},
		},
		{
			name:  "invalid dates ignored",
			dates: []string{"garbage", "2025-01-01"},
			want:  Result{Longest: 1, Final: 1, Last: "2025-01-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Longest(tt.dates))
		})
	}
}

func TestCurrentFromLast(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	res := Result{Longest: 5, Final: 4}

	tests := []struct {
		name string
		last string
		want int
	}{
		{name: "ends today", last: "2025-06-10", want: 4},
		{name: "ends yesterday", last: "2025-06-09", want: 4},
		{name: "two days stale", last: "2025-06-08", want: 0},
		{name: "ends after now", last: "2025-06-11", want: 4},
		{name: "no activity", last: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := res
			r.Last = tt.last
			assert.Equal(t, tt.want, CurrentFromLast(r, now))
		})
	}
}

func TestBackward(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days []Day
		want int
	}{
		{
			name: "today and previous days",
			days: []Day{{"2025-06-08", 1}, {"2025-06-09", 2}, {"2025-06-10", 3}},
			want: 3,
		},
		{
			name: "today at zero keeps yesterday's run",
			days: []Day{{"2025-06-08", 1}, {"2025-06-09", 2}, {"2025-06-10", 0}},
			want: 2,
		},
		{
			name: "today missing keeps yesterday's run",
			days: []Day{{"2025-06-08", 1}, {"2025-06-09", 1}},
			want: 2,
		},
		{
			name: "future zero days ignored",
			days: []Day{{"2025-06-09", 1}, {"2025-06-10", 1}, {"2025-06-11", 0}, {"2025-12-31", 0}},
			want: 2,
		},
		{
			name: "zero yesterday breaks",
			days: []Day{{"2025-06-08", 5}, {"2025-06-09", 0}, {"2025-06-10", 0}},
			want: 0,
		},
		{
			name: "missing date breaks",
			days: []Day{{"2025-06-07", 5}, {"2025-06-09", 1}},
			want: 1,
		},
		{
			name: "empty",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Backward(tt.days, now))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	n, err := DaysBetween("2024-12-31", "2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = DaysBetween("2025-01-02", "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, -1, n)

	_, err = DaysBetween("2025-13-01", "2025-01-01")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
