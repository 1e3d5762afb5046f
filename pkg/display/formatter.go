package display

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// errNoReport is returned when a formatter is handed a nil report.
var errNoReport = errors.New("no report to display")

// New creates a new formatter based on configuration.
func New(cfg Config) Formatter {
	if cfg.Format == "" {
		cfg.Format = FormatTable
	}

	switch cfg.Format {
	case FormatJSON:
		return &jsonFormatter{config: cfg}
	case FormatSimple:
		return &simpleFormatter{config: cfg}
	case FormatTable:
		fallthrough
	default:
		return newTableFormatter(cfg)
	}
}

// FormatNumber abbreviates n with one decimal: 1.5K, 2.0M, 3.1B.
func FormatNumber(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000_000, 'f', 1, 64) + "B"
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatCost formats a USD amount with two decimals.
func FormatCost(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// formatThousands formats a number with thousand separators.
func formatThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 1000 {
		return s
	}

	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
