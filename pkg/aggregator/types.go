// Package aggregator folds normalized usage records into one bucket per
// calendar date.
//
// Example usage:
//
//	agg := aggregator.New()
//	for _, rec := range records {
//	    agg.Add(rec)
//	}
//	for _, b := range agg.Buckets() {
//	    fmt.Printf("%s %d tokens\n", b.Date, b.Tokens)
//	}
package aggregator

import "github.com/0xmhha/year-in-code/pkg/parser"

// DailyBucket holds the usage of one calendar date.
type DailyBucket struct {
	// Date is YYYY-MM-DD.
	Date string

	// Tokens is the sum of all token categories for the date.
	Tokens int64

	// Cost is the summed USD cost for the date.
	Cost float64

	// Models maps a model label to the tokens it used on the date.
	Models map[string]int64
}

// Active reports whether the bucket carries any tokens.
func (b DailyBucket) Active() bool {
	return b.Tokens > 0
}

// clone returns a deep copy of b.
func (b DailyBucket) clone() DailyBucket {
	models := make(map[string]int64, len(b.Models))
	for k, v := range b.Models {
		models[k] = v
	}
	b.Models = models
	return b
}

// Aggregator groups usage by date.
//
// Implementations are safe for concurrent use.
type Aggregator interface {
	// Add folds a record into the bucket for its date, creating it on first
	// sight. A record with zero tokens still creates the bucket.
	Add(rec parser.UsageRecord)

	// AddBucket merges a pre-aggregated day into the bucket for its date.
	AddBucket(b DailyBucket)

	// Buckets returns copies of all buckets, ascending by date.
	Buckets() []DailyBucket

	// ModelTotals returns tokens per model across all dates.
	ModelTotals() map[string]int64

	// HourTotals returns tokens per hour of day. Records without an hour
	// are not counted.
	HourTotals() [24]int64

	// Sessions returns the number of distinct non-empty session IDs seen.
	Sessions() int

	// TotalTokens returns the sum of tokens across all buckets.
	TotalTokens() int64

	// TotalCost returns the sum of cost across all buckets.
	TotalCost() float64

	// Len returns the number of buckets.
	Len() int

	// Reset clears all aggregated data.
	Reset()
}
