package adapter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/0xmhha/year-in-code/pkg/aggregator"
	"github.com/0xmhha/year-in-code/pkg/ranking"
	"github.com/0xmhha/year-in-code/pkg/stats"
	"github.com/0xmhha/year-in-code/pkg/streak"
)

// dailyReport is the JSON written by `ccusage daily --json`.
type dailyReport struct {
	Daily  []dailyEntry `json:"daily"`
	Totals *struct {
		TotalTokens int64   `json:"totalTokens"`
		TotalCost   float64 `json:"totalCost"`
	} `json:"totals"`
}

type dailyEntry struct {
	Date            string   `json:"date"`
	TotalTokens     int64    `json:"totalTokens"`
	TotalCost       float64  `json:"totalCost"`
	ModelsUsed      []string `json:"modelsUsed"`
	ModelBreakdowns []struct {
		ModelName           string `json:"modelName"`
		InputTokens         int64  `json:"inputTokens"`
		OutputTokens        int64  `json:"outputTokens"`
		CacheCreationTokens int64  `json:"cacheCreationTokens"`
		CacheReadTokens     int64  `json:"cacheReadTokens"`
	} `json:"modelBreakdowns"`
}

// models attributes the day's tokens to models. Detailed breakdowns win;
// otherwise the day total is split evenly across modelsUsed, remainder to
// the first names. The split is an approximation.
func (d dailyEntry) models() map[string]int64 {
	out := make(map[string]int64)
	if len(d.ModelBreakdowns) > 0 {
		for _, b := range d.ModelBreakdowns {
			if b.ModelName == "" {
				continue
			}
			out[b.ModelName] += b.InputTokens + b.OutputTokens + b.CacheCreationTokens + b.CacheReadTokens
		}
		return out
	}

	names := make([]string, 0, len(d.ModelsUsed))
	for _, name := range d.ModelsUsed {
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 || d.TotalTokens <= 0 {
		return out
	}

	n := int64(len(names))
	share, rem := d.TotalTokens/n, d.TotalTokens%n
	for i, name := range names {
		credit := share
		if int64(i) < rem {
			credit++
		}
		out[name] += credit
	}
	return out
}

// Daily builds a report from a ccusage daily report, computing streaks and
// model shares itself.
func Daily(data []byte, opts Options) (*stats.YearStats, error) {
	var report dailyReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("%w: daily report: %v", ErrInvalidInput, err)
	}
	if len(report.Daily) == 0 {
		return nil, fmt.Errorf("%w: daily report has no days", ErrEmptyInput)
	}

	log := opts.log().Named("adapter.daily")

	agg := aggregator.New()
	skipped := 0
	for i, day := range report.Daily {
		if _, err := time.Parse(dateLayout, day.Date); err != nil {
			log.Debug("skipping day", "index", i, "date", day.Date)
			skipped++
			continue
		}
		agg.AddBucket(aggregator.DailyBucket{
			Date:   day.Date,
			Tokens: day.TotalTokens,
			Cost:   day.TotalCost,
			Models: day.models(),
		})
	}

	if agg.Len() == 0 {
		return nil, fmt.Errorf("%w: daily report has no dated days (%d skipped)", ErrEmptyInput, skipped)
	}

	now := opts.now()
	buckets := agg.Buckets()
	days := toDays(buckets)
	runs := streak.Longest(activeDates(buckets))

	totalTokens, totalCost := agg.TotalTokens(), agg.TotalCost()
	if report.Totals != nil {
		if report.Totals.TotalTokens > 0 {
			totalTokens = report.Totals.TotalTokens
		}
		if report.Totals.TotalCost > 0 {
			totalCost = report.Totals.TotalCost
		}
	}

	log.Debug("parsed daily report",
		"days", len(buckets),
		"skipped", skipped,
		"total_tokens", totalTokens)

	return &stats.YearStats{
		Year:          yearOf(buckets[0].Date, now.Year()),
		TotalTokens:   totalTokens,
		TotalCost:     totalCost,
		ActiveDays:    stats.ActiveDays(days),
		CurrentStreak: streak.CurrentFromLast(runs, now),
		LongestStreak: runs.Longest,
		TotalSessions: len(report.Daily) - skipped,
		TopModels: ranking.Rank(agg.ModelTotals(), totalTokens, ranking.Options{
			Clean: ranking.CleanModelLabel,
			Limit: opts.limit(),
		}),
		DailyData: days,
		PeakDay:   stats.PeakDay(days),
		Source:    stats.SourceDaily,
	}, nil
}
