package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xmhha/year-in-code/pkg/adapter"
	"github.com/0xmhha/year-in-code/pkg/leaderboard"
)

type githubOptions struct {
	year    int
	format  string
	submit  bool
	compact bool
}

func newGitHubCmd(a *app) *cobra.Command {
	var opts githubOptions

	cmd := &cobra.Command{
		Use:   "github <username>",
		Short: "Build a year report from GitHub contributions",
		Example: `  yearincode github octocat
  yearincode github octocat --year 2024 --submit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGitHub(cmd.Context(), args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.year, "year", 0, "report year (default: current year)")
	flags.StringVarP(&opts.format, "format", "f", "", "output format (table, json, simple)")
	flags.BoolVar(&opts.submit, "submit", false, "submit the report to the local leaderboard")
	flags.BoolVar(&opts.compact, "compact", false, "compact output")

	return cmd
}

func (a *app) runGitHub(ctx context.Context, username string, opts githubOptions) error {
	cfg, log, err := a.load()
	if err != nil {
		return err
	}

	formatter, err := a.formatter(cfg, opts.format, opts.compact)
	if err != nil {
		return err
	}

	year := opts.year
	if year == 0 {
		year = a.now().Year()
	}

	report, err := adapter.GitHub(ctx, a.githubClient(cfg, log), username, year, a.adapterOptions(cfg, log))
	if err != nil {
		return err
	}
	if err := formatter.FormatReport(a.stdout, report); err != nil {
		return err
	}

	if !opts.submit {
		return nil
	}

	store, err := a.openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore(store, log)

	entry, err := store.Submit(leaderboard.RequestFromStats(username, leaderboard.AvatarURL(username), report))
	if err != nil {
		return fmt.Errorf("failed to submit: %w", err)
	}

	fmt.Fprintf(a.stderr, "Submitted %s to the %d leaderboard.\n", entry.Username, entry.Year)
	return nil
}
