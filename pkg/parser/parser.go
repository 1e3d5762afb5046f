package parser

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/0xmhha/year-in-code/pkg/logger"
)

const (
	// MaxFileSize is the maximum accepted JSONL file size (100MB).
	MaxFileSize = 100 * 1024 * 1024

	// MaxLineLength is the maximum accepted line length (1MB).
	MaxLineLength = 1024 * 1024

	dateLayout = "2006-01-02"
)

// Normalize extracts a UsageRecord from one raw record of unknown shape.
//
// It returns ErrMissingTimestamp or ErrInvalidDate when the record must be
// discarded. Missing numeric fields default to 0 and a missing model to
// UnknownModel; neither is an error.
func Normalize(raw map[string]any) (UsageRecord, error) {
	ts := stringField(raw, FieldTimestamp)
	if ts == "" {
		return UsageRecord{}, ErrMissingTimestamp
	}

	date, hour, err := splitTimestamp(ts)
	if err != nil {
		return UsageRecord{}, err
	}

	model := stringField(raw, FieldModel)
	if model == "" {
		model = UnknownModel
	}

	return UsageRecord{
		Timestamp:           ts,
		Date:                date,
		Hour:                hour,
		Model:               model,
		SessionID:           stringField(raw, FieldSession),
		InputTokens:         tokenField(raw, FieldInput),
		OutputTokens:        tokenField(raw, FieldOutput),
		CacheCreationTokens: tokenField(raw, FieldCacheCreation),
		CacheReadTokens:     tokenField(raw, FieldCacheRead),
		CostUSD:             numberField(raw, FieldCost),
	}, nil
}

// splitTimestamp returns the date before the first 'T' and the hour after it.
func splitTimestamp(ts string) (string, int, error) {
	datePart, rest, hasTime := strings.Cut(ts, "T")
	if len(datePart) < len(dateLayout) {
		return "", NoHour, fmt.Errorf("%w: %q", ErrInvalidDate, ts)
	}
	date := datePart[:len(dateLayout)]
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", NoHour, fmt.Errorf("%w: %q", ErrInvalidDate, ts)
	}

	hour := NoHour
	if hasTime && len(rest) >= 2 && isDigit(rest[0]) && isDigit(rest[1]) {
		if h := int(rest[0]-'0')*10 + int(rest[1]-'0'); h < 24 {
			hour = h
		}
	}
	return date, hour, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Parser reads line-delimited JSON usage logs.
type Parser interface {
	// ParseLine parses one line into a record.
	//
	// Returns ErrMalformedJSON for lines that are not JSON objects and the
	// Normalize errors for records that must be discarded.
	ParseLine(line string) (*UsageRecord, error)

	// ParseReader parses every line from r.
	//
	// Blank, malformed and discarded lines are counted in Result and
	// skipped. Only read errors are returned.
	ParseReader(r io.Reader) ([]UsageRecord, Result, error)

	// ParseFile opens path and parses it with ParseReader.
	//
	// Returns ErrFileTooLarge for files above MaxFileSize.
	ParseFile(path string) ([]UsageRecord, Result, error)
}

type jsonlParser struct {
	logger logger.Logger
}

// New creates a Parser that reports skipped lines to log.
func New(log logger.Logger) Parser {
	if log == nil {
		log = logger.Noop()
	}
	return &jsonlParser{logger: log.Named("parser")}
}

func (p *jsonlParser) ParseLine(line string) (*UsageRecord, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty line", ErrMalformedJSON)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedJSON)
	}

	rec, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (p *jsonlParser) ParseReader(r io.Reader) ([]UsageRecord, Result, error) {
	var res Result
	records := make([]UsageRecord, 0, 100)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)

	for scanner.Scan() {
		res.Lines++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			res.Blank++
			continue
		}

		rec, err := p.ParseLine(string(line))
		if err != nil {
			if errors.Is(err, ErrMalformedJSON) {
				res.Malformed++
			} else {
				res.Discarded++
			}
			p.logger.Debug("skipping line",
				"error", &ParseError{Line: res.Lines, Data: string(line), Err: err})
			continue
		}

		records = append(records, *rec)
		res.Records++
	}

	if err := scanner.Err(); err != nil {
		return records, res, fmt.Errorf("scanner error at line %d: %w", res.Lines+1, err)
	}

	return records, res, nil
}

func (p *jsonlParser) ParseFile(path string) ([]UsageRecord, Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, Result{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, Result{}, fmt.Errorf("%w: size=%d, max=%d",
			ErrFileTooLarge, info.Size(), MaxFileSize)
	}

	// #nosec G304: path is chosen by the user or discovery
	f, err := os.Open(path) // nolint:gosec
	if err != nil {
		return nil, Result{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			p.logger.Warn("failed to close file", "path", path, "error", closeErr)
		}
	}()

	records, res, err := p.ParseReader(f)
	if err != nil {
		return records, res, err
	}

	p.logger.Info("parsed file",
		"path", path,
		"records", res.Records,
		"skipped", res.Skipped())

	return records, res, nil
}
