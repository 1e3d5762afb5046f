package aggregator

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/0xmhha/year-in-code/pkg/parser"
)

// aggregator implements the Aggregator interface.
type aggregator struct {
	mu       sync.RWMutex
	days     map[string]*DailyBucket
	hours    [24]int64
	sessions map[string]struct{}
}

// New creates an empty aggregator.
func New() Aggregator {
	return &aggregator{
		days:     make(map[string]*DailyBucket),
		sessions: make(map[string]struct{}),
	}
}

// bucket returns the bucket for date, creating it if needed.
// Caller must hold the write lock.
func (a *aggregator) bucket(date string) *DailyBucket {
	b, ok := a.days[date]
	if !ok {
		b = &DailyBucket{Date: date, Models: make(map[string]int64)}
		a.days[date] = b
	}
	return b
}

// Add implements Aggregator.Add.
func (a *aggregator) Add(rec parser.UsageRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	total := rec.TotalTokens()

	b := a.bucket(rec.Date)
	b.Tokens += total
	b.Cost += rec.CostUSD
	b.Models[rec.Model] += total

	if rec.Hour >= 0 && rec.Hour < 24 {
		a.hours[rec.Hour] += total
	}
	if rec.SessionID != "" {
		a.sessions[rec.SessionID] = struct{}{}
	}
}

// AddBucket implements Aggregator.AddBucket.
func (a *aggregator) AddBucket(in DailyBucket) {
	a.mu.Lock()
	defer a.mu.Unlock()

	b := a.bucket(in.Date)
	b.Tokens += in.Tokens
	b.Cost += in.Cost
	for model, tokens := range in.Models {
		b.Models[model] += tokens
	}
}

// Buckets implements Aggregator.Buckets.
func (a *aggregator) Buckets() []DailyBucket {
	a.mu.RLock()
	defer a.mu.RUnlock()

	result := make([]DailyBucket, 0, len(a.days))
	for _, b := range a.days {
		result = append(result, b.clone())
	}

	// ISO dates sort lexicographically.
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	return result
}

// ModelTotals implements Aggregator.ModelTotals.
func (a *aggregator) ModelTotals() map[string]int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	totals := make(map[string]int64)
	for _, b := range a.days {
		for model, tokens := range b.Models {
			totals[model] += tokens
		}
	}
	return totals
}

// HourTotals implements Aggregator.HourTotals.
func (a *aggregator) HourTotals() [24]int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.hours
}

// Sessions implements Aggregator.Sessions.
func (a *aggregator) Sessions() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.sessions)
}

// TotalTokens implements Aggregator.TotalTokens.
func (a *aggregator) TotalTokens() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return lo.SumBy(lo.Values(a.days), func(b *DailyBucket) int64 { return b.Tokens })
}

// TotalCost implements Aggregator.TotalCost.
func (a *aggregator) TotalCost() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return lo.SumBy(lo.Values(a.days), func(b *DailyBucket) float64 { return b.Cost })
}

// Len implements Aggregator.Len.
func (a *aggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.days)
}

// Reset implements Aggregator.Reset.
func (a *aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.days = make(map[string]*DailyBucket)
	a.hours = [24]int64{}
	a.sessions = make(map[string]struct{})
}
