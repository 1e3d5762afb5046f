package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xmhha/year-in-code/pkg/adapter"
	"github.com/0xmhha/year-in-code/pkg/config"
	"github.com/0xmhha/year-in-code/pkg/discovery"
	"github.com/0xmhha/year-in-code/pkg/display"
	"github.com/0xmhha/year-in-code/pkg/logger"
	"github.com/0xmhha/year-in-code/pkg/parser"
	"github.com/0xmhha/year-in-code/pkg/stats"
	"github.com/0xmhha/year-in-code/pkg/watcher"
)

// stdinPath reads the report input from standard input.
const stdinPath = "-"

type reportOptions struct {
	input   string
	format  string
	year    int
	top     int
	watch   bool
	compact bool
}

func newReportCmd(a *app) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report [paths...]",
		Short: "Build a year report from usage logs",
		Long: `Build a year report from Claude Code JSONL logs, a ccusage JSON export or
a ccusage daily export.

Paths may be files or directories. Without paths the configured Claude
directories are searched for JSONL logs. Use - to read standard input.`,
		Example: `  yearincode report
  yearincode report ~/exports/ccusage.json --format json
  ccusage daily --json | yearincode report - --input daily
  yearincode report --year 2025 --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReport(cmd.Context(), args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "input format (auto, native, ccusage, daily)")
	flags.StringVarP(&opts.format, "format", "f", "", "output format (table, json, simple)")
	flags.IntVar(&opts.year, "year", 0, "only count native records from this year")
	flags.IntVar(&opts.top, "top", 0, "number of ranked models")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "rebuild the report when inputs change")
	flags.BoolVar(&opts.compact, "compact", false, "compact output")

	return cmd
}

func (a *app) runReport(ctx context.Context, paths []string, opts reportOptions) error {
	cfg, log, err := a.load()
	if err != nil {
		return err
	}

	input := opts.input
	if input == "" {
		input = cfg.Report.DefaultInput
	}
	inputFormat, err := adapter.ParseFormat(input)
	if err != nil {
		return err
	}

	formatter, err := a.formatter(cfg, opts.format, opts.compact)
	if err != nil {
		return err
	}

	adapterOpts := a.adapterOptions(cfg, log)
	if opts.top > 0 {
		adapterOpts.TopN = opts.top
	}

	discovered := len(paths) == 0
	build := func() (*stats.YearStats, error) {
		sources := paths
		if discovered {
			files, err := discovery.New(cfg.ClaudeConfigDirs, log).Discover()
			if err != nil {
				if errors.Is(err, discovery.ErrNoSessionsFound) {
					return nil, fmt.Errorf("%w in %v: pass a file or set CLAUDE_CONFIG_DIR", err, cfg.ClaudeConfigDirs)
				}
				return nil, err
			}
			sources = discovery.Paths(files)
		}
		return a.buildReport(sources, inputFormat, opts.year, adapterOpts, log)
	}

	report, err := build()
	if err != nil {
		return err
	}
	if err := formatter.FormatReport(a.stdout, report); err != nil {
		return err
	}

	if !opts.watch {
		return nil
	}

	watchPaths := paths
	if discovered {
		watchPaths = cfg.ClaudeConfigDirs
	}
	return a.watchReport(ctx, watchPaths, build, formatter, log)
}

func (a *app) formatter(cfg *config.Config, format string, compact bool) (display.Formatter, error) {
	if format == "" {
		format = cfg.Display.DefaultFormat
	}
	f, err := display.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return display.New(display.Config{
		Format:  f,
		Color:   colorEnabled(cfg.Display.Color, a.stdout),
		Compact: compact,
		Now:     a.now,
	}), nil
}

// buildReport reads sources in the given format. Aggregated exports take a
// single source; native logs may span many files and directories.
func (a *app) buildReport(sources []string, format adapter.Format, year int, opts adapter.Options, log logger.Logger) (*stats.YearStats, error) {
	if format != adapter.FormatNative && len(sources) == 1 && !isDir(sources[0]) {
		data, err := a.readSource(sources[0])
		if err != nil {
			return nil, err
		}
		if format == adapter.FormatAuto {
			format = adapter.Detect(data)
		}
		if format != adapter.FormatNative {
			return adapter.FromBytes(data, format, opts)
		}

		records, res, err := parser.New(log).ParseReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return nativeReport(records, res, 1, year, opts, log), nil
	}
	if format != adapter.FormatNative && format != adapter.FormatAuto {
		return nil, fmt.Errorf("%s input takes exactly one file, got %d", format, len(sources))
	}

	p := parser.New(log)
	var (
		records []parser.UsageRecord
		total   parser.Result
	)
	for _, source := range sources {
		recs, res, err := a.parseSource(p, source, log)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
		total.Merge(res)
	}

	return nativeReport(records, total, len(sources), year, opts, log), nil
}

func nativeReport(records []parser.UsageRecord, res parser.Result, sources, year int, opts adapter.Options, log logger.Logger) *stats.YearStats {
	log.Info("parsed usage logs",
		"sources", sources,
		"records", res.Records,
		"skipped", res.Skipped())

	return adapter.NativeRecords(adapter.RecordsForYear(records, year), opts)
}

func (a *app) parseSource(p parser.Parser, source string, log logger.Logger) ([]parser.UsageRecord, parser.Result, error) {
	if source == stdinPath {
		return p.ParseReader(a.stdin)
	}

	if !isDir(source) {
		return p.ParseFile(source)
	}

	files, err := discovery.New(nil, log).DiscoverProject(source)
	if err != nil {
		return nil, parser.Result{}, err
	}

	var (
		records []parser.UsageRecord
		total   parser.Result
	)
	for _, f := range files {
		recs, res, err := p.ParseFile(f.FilePath)
		if err != nil {
			return nil, parser.Result{}, err
		}
		records = append(records, recs...)
		total.Merge(res)
	}
	return records, total, nil
}

func (a *app) readSource(source string) ([]byte, error) {
	if source == stdinPath {
		data, err := io.ReadAll(io.LimitReader(a.stdin, parser.MaxFileSize+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		if len(data) > parser.MaxFileSize {
			return nil, fmt.Errorf("%w: stdin", parser.ErrFileTooLarge)
		}
		return data, nil
	}

	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > parser.MaxFileSize {
		return nil, fmt.Errorf("%w: %s", parser.ErrFileTooLarge, source)
	}
	data, err := os.ReadFile(source) // nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// watchReport rebuilds and prints the report after every batch of changes
// until ctx is done.
func (a *app) watchReport(ctx context.Context, paths []string, build func() (*stats.YearStats, error), formatter display.Formatter, log logger.Logger) error {
	for _, p := range paths {
		if p == stdinPath {
			return errors.New("--watch cannot be used with standard input")
		}
	}

	w, err := watcher.New(watcher.Config{}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			log.Error("failed to close watcher", "error", err)
		}
	}()

	if err := w.Start(ctx, paths); err != nil {
		return fmt.Errorf("failed to watch inputs: %w", err)
	}
	fmt.Fprintln(a.stderr, "Watching for changes. Press Ctrl-C to stop.")

	for {
		select {
		case <-ctx.Done():
			return nil

		case batch, ok := <-w.Events():
			if !ok {
				return nil
			}
			log.Debug("inputs changed", "files", len(batch.Paths()))

			report, err := build()
			if err != nil {
				log.Warn("failed to rebuild report", "error", err)
				continue
			}
			if err := formatter.FormatReport(a.stdout, report); err != nil {
				return err
			}

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			if errors.Is(err, watcher.ErrCircuitBreakerOpen) {
				return err
			}
			log.Warn("watcher error", "error", err)
		}
	}
}

func isDir(path string) bool {
	if path == stdinPath {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
