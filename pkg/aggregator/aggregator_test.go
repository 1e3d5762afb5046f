package aggregator

import (
	"sync"
	"testing"

	"github.com/0xmhha/year-in-code/pkg/parser"
)

func record(date, model string, hour int, tokens int64, cost float64) parser.UsageRecord {
	return parser.UsageRecord{
		Timestamp:   date + "T00:00:00Z",
		Date:        date,
		Hour:        hour,
		Model:       model,
		InputTokens: tokens,
		CostUSD:     cost,
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	agg := New()
	if agg == nil {
		t.Fatal("New() returned nil")
	}
	if agg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", agg.Len())
	}
	if got := agg.Buckets(); len(got) != 0 {
		t.Errorf("Buckets() = %v, want empty", got)
	}
}

func TestAdd_GroupsByDate(t *testing.T) {
	t.Parallel()

	agg := New()
	agg.Add(record("2025-01-02", "sonnet", 9, 100, 0.5))
	agg.Add(record("2025-01-01", "opus", 10, 40, 1.0))
	agg.Add(record("2025-01-02", "opus", 9, 60, 0.25))

	buckets := agg.Buckets()
	if len(buckets) != 2 {
		t.Fatalf("len(Buckets()) = %d, want 2", len(buckets))
	}
	if buckets[0].Date != "2025-01-01" || buckets[1].Date != "2025-01-02" {
		t.Errorf("Buckets() not ascending: %s, %s", buckets[0].Date, buckets[1].Date)
	}
	if buckets[1].Tokens != 160 {
		t.Errorf("Tokens = %d, want 160", buckets[1].Tokens)
	}
	if buckets[1].Cost != 0.75 {
		t.Errorf("Cost = %f, want 0.75", buckets[1].Cost)
	}
	if buckets[1].Models["opus"] != 60 || buckets[1].Models["sonnet"] != 100 {
		t.Errorf("Models = %v", buckets[1].Models)
	}

	if agg.TotalTokens() != 200 {
		t.Errorf("TotalTokens() = %d, want 200", agg.TotalTokens())
	}
	if agg.TotalCost() != 1.75 {
		t.Errorf("TotalCost() = %f, want 1.75", agg.TotalCost())
	}

	totals := agg.ModelTotals()
	if totals["opus"] != 100 || totals["sonnet"] != 100 {
		t.Errorf("ModelTotals() = %v", totals)
	}

	hours := agg.HourTotals()
	if hours[9] != 160 || hours[10] != 40 {
		t.Errorf("HourTotals() = %v", hours)
	}
}

func TestAdd_ZeroTokenRecordKeepsDate(t *testing.T) {
	t.Parallel()

	agg := New()
	agg.Add(record("2025-02-01", parser.UnknownModel, parser.NoHour, 0, 0))

	buckets := agg.Buckets()
	if len(buckets) != 1 {
		t.Fatalf("len(Buckets()) = %d, want 1", len(buckets))
	}
	if buckets[0].Active() {
		t.Error("zero-token bucket reported active")
	}
	if hours := agg.HourTotals(); hours != [24]int64{} {
		t.Errorf("HourTotals() = %v, want zero", hours)
	}
}

func TestAddBucket_Merges(t *testing.T) {
	t.Parallel()

	agg := New()
	agg.AddBucket(DailyBucket{Date: "2025-03-01", Tokens: 10, Cost: 1, Models: map[string]int64{"a": 10}})
	agg.AddBucket(DailyBucket{Date: "2025-03-01", Tokens: 5, Models: map[string]int64{"a": 2, "b": 3}})
	agg.AddBucket(DailyBucket{Date: "2025-03-02"})

	buckets := agg.Buckets()
	if len(buckets) != 2 {
		t.Fatalf("len(Buckets()) = %d, want 2", len(buckets))
	}
	if buckets[0].Tokens != 15 || buckets[0].Models["a"] != 12 || buckets[0].Models["b"] != 3 {
		t.Errorf("merged bucket = %+v", buckets[0])
	}
	if buckets[1].Models == nil {
		t.Error("Models map is nil for bucket without breakdown")
	}
}

func TestBuckets_ReturnsCopies(t *testing.T) {
	t.Parallel()

	agg := New()
	agg.Add(record("2025-01-01", "m", 0, 10, 0))

	first := agg.Buckets()
	first[0].Tokens = 999
	first[0].Models["m"] = 999

	second := agg.Buckets()
	if second[0].Tokens != 10 || second[0].Models["m"] != 10 {
		t.Errorf("Buckets() leaked internal state: %+v", second[0])
	}
}

func TestSessions(t *testing.T) {
	t.Parallel()

	agg := New()
	for _, id := range []string{"a", "b", "a", ""} {
		rec := record("2025-01-01", "m", 0, 1, 0)
		rec.SessionID = id
		agg.Add(rec)
	}

	if agg.Sessions() != 2 {
		t.Errorf("Sessions() = %d, want 2", agg.Sessions())
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	agg := New()
	rec := record("2025-01-01", "m", 3, 10, 1)
	rec.SessionID = "s"
	agg.Add(rec)
	agg.Reset()

	if agg.Len() != 0 || agg.TotalTokens() != 0 || agg.Sessions() != 0 {
		t.Error("Reset() did not clear state")
	}
	if agg.HourTotals()[3] != 0 {
		t.Error("Reset() did not clear hour totals")
	}
}

func TestConcurrentAdd(t *testing.T) {
	t.Parallel()

	agg := New()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				agg.Add(record("2025-01-01", "m", 1, 1, 0))
			}
		}()
	}
	wg.Wait()

	if agg.TotalTokens() != 1000 {
		t.Errorf("TotalTokens() = %d, want 1000", agg.TotalTokens())
	}
}

func BenchmarkAdd(b *testing.B) {
	agg := New()
	rec := record("2025-01-01", "claude-sonnet-4", 12, 150, 0.01)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		agg.Add(rec)
	}
}
