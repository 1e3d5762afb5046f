// Package streak computes consecutive-day activity runs over ISO dates.
package streak

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidDate is returned when a date is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// Result describes the runs found in a set of dates.
type Result struct {
	// Longest is the length of the longest run of consecutive dates.
	Longest int

	// Final is the length of the run that ends at Last.
	Final int

	// Last is the latest date seen, empty when there were none.
	Last string
}

// Day is one calendar date with an activity count.
type Day struct {
	Date  string
	Count int64
}

// Longest walks the unique dates in ascending order. A gap of exactly one
// day extends the current run; any other gap starts a new one. Dates that do
// not parse are ignored.
func Longest(dates []string) Result {
	days := parseUnique(dates)
	if len(days) == 0 {
		return Result{}
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if daysApart(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	return Result{
		Longest: longest,
		Final:   run,
		Last:    days[len(days)-1].Format(dateLayout),
	}
}

// CurrentFromLast returns res.Final when res.Last is at most one day before
// now's calendar date, otherwise 0. A Last after now keeps the run.
func CurrentFromLast(res Result, now time.Time) int {
	if res.Last == "" {
		return 0
	}
	last, err := time.Parse(dateLayout, res.Last)
	if err != nil {
		return 0
	}
	if daysApart(last, calendarDay(now)) <= 1 {
		return res.Final
	}
	return 0
}

// Backward counts consecutive active days walking back from today.
//
// Days after today are ignored. A missing date or a zero count stops the
// walk, with one exception: a missing or zero count for today is skipped
// and the walk starts at yesterday, since today is still in progress. A
// streak through yesterday therefore survives until today ends.
func Backward(days []Day, now time.Time) int {
	counts := make(map[string]int64, len(days))
	for _, d := range days {
		counts[d.Date] += d.Count
	}

	cursor := calendarDay(now)
	if c, ok := counts[cursor.Format(dateLayout)]; !ok || c == 0 {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		c, ok := counts[cursor.Format(dateLayout)]
		if !ok || c == 0 {
			return streak
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
}

// DaysBetween returns b minus a in whole days.
func DaysBetween(a, b string) (int, error) {
	ta, err := time.Parse(dateLayout, a)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, a)
	}
	tb, err := time.Parse(dateLayout, b)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, b)
	}
	return daysApart(ta, tb), nil
}

func parseUnique(dates []string) []time.Time {
	seen := make(map[string]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if _, dup := seen[d]; dup {
			continue
		}
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, t)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// calendarDay returns midnight UTC of t's date in t's own location.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysApart assumes both times are UTC midnights.
func daysApart(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
