// Package parser normalizes loosely-typed usage records into UsageRecord
// values.
//
// Claude Code session exports and the tools built around them name the same
// attribute in several ways (inputTokens, input_tokens,
// message.usage.input_tokens). Each logical field is resolved through a
// prioritized accessor list; the first accessor that yields a usable value
// wins. Records without a usable timestamp are discarded, never fatal.
//
// Example usage:
//
//	p := parser.New(logger.Default())
//	records, res, err := p.ParseFile("/path/to/session.jsonl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d records, %d skipped\n", len(records), res.Skipped())
package parser

// UnknownModel labels records that carry no model identifier.
const UnknownModel = "unknown"

// NoHour marks a record whose timestamp carries no hour of day.
const NoHour = -1

// UsageRecord is one normalized usage entry.
//
// Invariant: Date is a valid YYYY-MM-DD string.
// Invariant: every token count and CostUSD is >= 0.
type UsageRecord struct {
	// Timestamp is the raw timestamp string the record was keyed on.
	Timestamp string

	// Date is the calendar date portion of Timestamp.
	Date string

	// Hour is the hour of day in Timestamp, or NoHour.
	Hour int

	// Model is the model identifier, UnknownModel when absent.
	Model string

	// SessionID is empty when the source has no session notion.
	SessionID string

	InputTokens         int64
	OutputTokens        int64
	CacheCreationTokens int64
	CacheReadTokens     int64

	CostUSD float64
}

// TotalTokens returns the sum of all four token categories.
func (r UsageRecord) TotalTokens() int64 {
	return r.InputTokens + r.OutputTokens + r.CacheCreationTokens + r.CacheReadTokens
}

// Result summarizes one batch parse.
type Result struct {
	// Lines is the number of lines read, blank ones included.
	Lines int

	// Records is the number of records kept.
	Records int

	// Blank is the number of empty or whitespace-only lines.
	Blank int

	// Malformed is the number of lines that were not JSON objects.
	Malformed int

	// Discarded is the number of JSON objects without a usable timestamp.
	Discarded int
}

// Skipped returns how many non-blank lines produced no record.
func (r Result) Skipped() int {
	return r.Malformed + r.Discarded
}

// Merge adds other into r.
func (r *Result) Merge(other Result) {
	r.Lines += other.Lines
	r.Records += other.Records
	r.Blank += other.Blank
	r.Malformed += other.Malformed
	r.Discarded += other.Discarded
}
