// Package ranking turns label counts into ordered top-N entries with shares
// of a grand total.
package ranking

import (
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// DefaultLimit is the number of entries kept when Options.Limit is 0.
const DefaultLimit = 5

// Entry is one ranked label.
type Entry struct {
	Label string `json:"model"`
	Count int64  `json:"tokens"`

	// Percentage is Count as a share of the grand total, 0-100, unrounded.
	Percentage float64 `json:"percentage"`
}

// Options control ranking.
type Options struct {
	// Clean rewrites labels before ranking. Labels that collide after
	// cleaning are merged; labels cleaned to "" are dropped. Nil keeps
	// labels as they are.
	Clean func(string) string

	// Limit caps the result. 0 means DefaultLimit, negative means no cap.
	Limit int
}

var dateSuffix = regexp.MustCompile(`-\d{8}$`)

// CleanModelLabel shortens a model identifier for display:
// "claude-sonnet-4-5-20250615" becomes "sonnet-4-5".
func CleanModelLabel(label string) string {
	return dateSuffix.ReplaceAllString(strings.TrimPrefix(label, "claude-"), "")
}

// Rank orders counts by descending count, ties by ascending label, and
// computes each entry's share of grandTotal. A non-positive grandTotal
// yields 0% for every entry.
func Rank(counts map[string]int64, grandTotal int64, opts Options) []Entry {
	merged := make(map[string]int64, len(counts))
	for _, label := range lo.Keys(counts) {
		if label == "" {
			continue
		}
		if opts.Clean != nil {
			cleaned := opts.Clean(label)
			if cleaned == "" {
				continue
			}
			merged[cleaned] += counts[label]
			continue
		}
		merged[label] += counts[label]
	}

	entries := lo.MapToSlice(merged, func(label string, count int64) Entry {
		return Entry{Label: label, Count: count, Percentage: Percentage(count, grandTotal)}
	})

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Label < entries[j].Label
	})

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Percentage returns count/total*100, or 0 when total is not positive.
func Percentage(count, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
