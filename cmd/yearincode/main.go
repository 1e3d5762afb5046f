// Package main provides the yearincode CLI application.
//
// yearincode turns Claude Code usage logs, ccusage exports and GitHub
// contribution history into a year-in-review report, keeps a local
// leaderboard of GitHub reports, and serves both over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/0xmhha/year-in-code/pkg/adapter"
	"github.com/0xmhha/year-in-code/pkg/config"
	"github.com/0xmhha/year-in-code/pkg/github"
	"github.com/0xmhha/year-in-code/pkg/leaderboard"
	"github.com/0xmhha/year-in-code/pkg/logger"
)

// version is set during build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every command shares.
type app struct {
	configPath string
	verbose    bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	cfg *config.Config
	log logger.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "yearincode",
		Short:         "Your year in code, from AI usage logs and GitHub contributions.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newReportCmd(a),
		newGitHubCmd(a),
		newLeaderboardCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.stdout, "yearincode %s\n", version)
		},
	}
}

// load reads the configuration once and sets up logging.
func (a *app) load() (*config.Config, logger.Logger, error) {
	if a.cfg != nil {
		return a.cfg, a.log, nil
	}

	cfg, err := config.NewLoader(a.configPath).Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if a.verbose {
		level = "debug"
	}
	output := cfg.Logging.Output
	if output == "" || output == "stderr" {
		a.log = logger.NewWithWriter(a.stderr, logger.Config{Level: level, Format: cfg.Logging.Format})
	} else {
		a.log = logger.New(logger.Config{Level: level, Format: cfg.Logging.Format, Output: output})
	}

	a.cfg = cfg
	return cfg, a.log, nil
}

func (a *app) adapterOptions(cfg *config.Config, log logger.Logger) adapter.Options {
	return adapter.Options{
		Now:    a.now,
		Logger: log,
		TopN:   cfg.Report.TopN,
	}
}

func (a *app) githubClient(cfg *config.Config, log logger.Logger) *github.Client {
	return github.NewClient(github.Config{
		ContributionsURL:  cfg.GitHub.ContributionsURL,
		APIURL:            cfg.GitHub.APIURL,
		Token:             cfg.GitHub.Token,
		Timeout:           cfg.GitHub.Timeout,
		RequestsPerSecond: cfg.GitHub.RequestsPerSecond,
	}, log)
}

func (a *app) openStore(cfg *config.Config, log logger.Logger) (leaderboard.Store, error) {
	store, err := leaderboard.New(leaderboard.Config{DBPath: cfg.Storage.DBPath, Now: a.now}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open leaderboard: %w", err)
	}
	return store, nil
}

func closeStore(store leaderboard.Store, log logger.Logger) {
	if err := store.Close(); err != nil {
		log.Error("failed to close leaderboard", "error", err)
	}
}

// colorEnabled applies the color mode to a writer. auto colors terminals
// only, and NO_COLOR turns it off.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
