// Package adapter converts each supported input shape into a stats.YearStats.
//
// Supported shapes:
//   - native: line-delimited Claude Code usage records
//   - ccusage: the aggregated JSON report of ccusage
//   - daily: the per-day JSON report of ccusage
//   - github: contribution history fetched through a GitHubSource
//
// Every entry point returns a fresh report; nothing is shared between calls.
package adapter

import (
	"time"

	"github.com/0xmhha/year-in-code/pkg/aggregator"
	"github.com/0xmhha/year-in-code/pkg/logger"
	"github.com/0xmhha/year-in-code/pkg/ranking"
	"github.com/0xmhha/year-in-code/pkg/stats"
)

// Options tune every adapter. The zero value is usable.
type Options struct {
	// Now returns the reference time for current streaks and years of
	// coding. Defaults to time.Now.
	Now func() time.Time

	// Logger receives skipped records and degraded fetches.
	Logger logger.Logger

	// TopN caps ranked lists. 0 means ranking.DefaultLimit.
	TopN int
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) log() logger.Logger {
	if o.Logger == nil {
		return logger.Noop()
	}
	return o.Logger
}

func (o Options) limit() int {
	if o.TopN == 0 {
		return ranking.DefaultLimit
	}
	return o.TopN
}

const dateLayout = "2006-01-02"

// toDays converts aggregator buckets to the report's daily series.
func toDays(buckets []aggregator.DailyBucket) []stats.Day {
	days := make([]stats.Day, 0, len(buckets))
	for _, b := range buckets {
		days = append(days, stats.Day{
			Date:   b.Date,
			Tokens: b.Tokens,
			Cost:   b.Cost,
			Models: b.Models,
		})
	}
	return days
}

// activeDates returns the dates of buckets with tokens > 0.
func activeDates(buckets []aggregator.DailyBucket) []string {
	dates := make([]string, 0, len(buckets))
	for _, b := range buckets {
		if b.Active() {
			dates = append(dates, b.Date)
		}
	}
	return dates
}

// yearOf returns the year of an ISO date, or fallback when it does not parse.
func yearOf(date string, fallback int) int {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return fallback
	}
	return t.Year()
}
