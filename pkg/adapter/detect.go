package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/0xmhha/year-in-code/pkg/parser"
	"github.com/0xmhha/year-in-code/pkg/stats"
)

// Format names an input shape accepted by FromBytes.
type Format string

// Input formats.
const (
	FormatAuto    Format = "auto"
	FormatNative  Format = "native"
	FormatCcusage Format = "ccusage"
	FormatDaily   Format = "daily"
)

// Formats lists the formats accepted by ParseFormat.
var Formats = []Format{FormatAuto, FormatNative, FormatCcusage, FormatDaily}

// ParseFormat parses a format name. The empty string means FormatAuto.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatAuto, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Detect guesses the format of data. A single JSON object with a "daily"
// key is a daily report, one with a "stats" key is a ccusage report;
// anything else is treated as a native log.
func Detect(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return FormatNative
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return FormatNative
	}
	if _, ok := fields["daily"]; ok {
		return FormatDaily
	}
	if _, ok := fields["stats"]; ok {
		return FormatCcusage
	}
	return FormatNative
}

// FromBytes builds a report from data in format f, detecting it for
// FormatAuto.
func FromBytes(data []byte, f Format, opts Options) (*stats.YearStats, error) {
	if f == FormatAuto || f == "" {
		f = Detect(data)
		opts.log().Named("adapter").Debug("detected input format", "format", f)
	}

	switch f {
	case FormatNative:
		return NativeFromReader(bytes.NewReader(data), parser.New(opts.log()), opts)
	case FormatCcusage:
		return Ccusage(data)
	case FormatDaily:
		return Daily(data, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
