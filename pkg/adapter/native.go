package adapter

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/0xmhha/year-in-code/pkg/aggregator"
	"github.com/0xmhha/year-in-code/pkg/parser"
	"github.com/0xmhha/year-in-code/pkg/ranking"
	"github.com/0xmhha/year-in-code/pkg/stats"
	"github.com/0xmhha/year-in-code/pkg/streak"
)

// Native builds a report from raw usage records of unknown shape. Records
// that cannot be normalized are logged and skipped.
func Native(records []map[string]any, opts Options) (*stats.YearStats, error) {
	log := opts.log().Named("adapter.native")

	normalized := make([]parser.UsageRecord, 0, len(records))
	for i, raw := range records {
		rec, err := parser.Normalize(raw)
		if err != nil {
			log.Debug("skipping record", "index", i, "error", err)
			continue
		}
		normalized = append(normalized, rec)
	}

	return NativeRecords(normalized, opts), nil
}

// NativeFromReader parses line-delimited JSON from r with p and builds a
// report. Only read errors are returned.
func NativeFromReader(r io.Reader, p parser.Parser, opts Options) (*stats.YearStats, error) {
	if p == nil {
		p = parser.New(opts.log())
	}

	records, res, err := p.ParseReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading usage log: %w", err)
	}

	opts.log().Named("adapter.native").Debug("parsed usage log",
		"records", res.Records,
		"blank", res.Blank,
		"skipped", res.Skipped())

	return NativeRecords(records, opts), nil
}

// NativeRecords builds a report from already normalized records. An empty
// slice yields a zero report for the current year.
func NativeRecords(records []parser.UsageRecord, opts Options) *stats.YearStats {
	agg := aggregator.New()
	for _, rec := range records {
		agg.Add(rec)
	}
	return fromAggregator(agg, opts)
}

func fromAggregator(agg aggregator.Aggregator, opts Options) *stats.YearStats {
	now := opts.now()
	buckets := agg.Buckets()
	days := toDays(buckets)

	year := now.Year()
	if len(buckets) > 0 {
		year = yearOf(buckets[0].Date, year)
	}

	runs := streak.Longest(activeDates(buckets))
	total := agg.TotalTokens()
	activeDays := stats.ActiveDays(days)

	sessions := agg.Sessions()
	if sessions == 0 {
		sessions = activeDays
	}

	return &stats.YearStats{
		Year:          year,
		TotalTokens:   total,
		TotalCost:     agg.TotalCost(),
		ActiveDays:    activeDays,
		CurrentStreak: streak.CurrentFromLast(runs, now),
		LongestStreak: runs.Longest,
		TotalSessions: sessions,
		TopModels: ranking.Rank(agg.ModelTotals(), total, ranking.Options{
			Clean: ranking.CleanModelLabel,
			Limit: opts.limit(),
		}),
		DailyData: days,
		PeakDay:   stats.PeakDay(days),
		PeakHour:  peakHour(agg.HourTotals()),
		Source:    stats.SourceNative,
	}
}

// peakHour returns the hour with the most tokens, earliest on ties, or nil
// when no hour carries tokens.
func peakHour(hours [24]int64) *int {
	best := -1
	var most int64
	for h, tokens := range hours {
		if tokens > most {
			best, most = h, tokens
		}
	}
	if best < 0 {
		return nil
	}
	return &best
}

// RecordsForYear keeps the records dated in year. A year <= 0 keeps all.
func RecordsForYear(records []parser.UsageRecord, year int) []parser.UsageRecord {
	if year <= 0 {
		return records
	}
	prefix := fmt.Sprintf("%04d-", year)
	return lo.Filter(records, func(rec parser.UsageRecord, _ int) bool {
		return strings.HasPrefix(rec.Date, prefix)
	})
}
