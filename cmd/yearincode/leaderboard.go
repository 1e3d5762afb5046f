package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xmhha/year-in-code/pkg/leaderboard"
)

func newLeaderboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Query and manage the local leaderboard",
	}

	cmd.AddCommand(
		newLeaderboardListCmd(a),
		newLeaderboardVerifyCmd(a),
		newLeaderboardRemoveCmd(a),
	)
	return cmd
}

func newLeaderboardListCmd(a *app) *cobra.Command {
	var (
		q        leaderboard.Query
		category string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ranked entries",
		Example: `  yearincode leaderboard list
  yearincode leaderboard list --year 2024 --category streak --search oct`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, log, err := a.load()
			if err != nil {
				return err
			}

			if q.Category, err = leaderboard.ParseCategory(category); err != nil {
				return err
			}
			if q.Year == 0 {
				q.Year = a.now().Year()
			}

			formatter, err := a.formatter(cfg, format, false)
			if err != nil {
				return err
			}

			store, err := a.openStore(cfg, log)
			if err != nil {
				return err
			}
			defer closeStore(store, log)

			page, err := store.Query(q)
			if err != nil {
				return err
			}
			return formatter.FormatLeaderboard(a.stdout, page)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&q.Year, "year", 0, "leaderboard year (default: current year)")
	flags.StringVar(&category, "category", "", "ranking (contributions, streak, years, stars)")
	flags.StringVar(&q.Search, "search", "", "only usernames containing this text")
	flags.IntVar(&q.Limit, "limit", 0, "maximum entries (default 100, negative for all)")
	flags.StringVarP(&format, "format", "f", "", "output format (table, json, simple)")

	return cmd
}

func newLeaderboardVerifyCmd(a *app) *cobra.Command {
	var (
		year   int
		revoke bool
	)

	cmd := &cobra.Command{
		Use:   "verify <username>",
		Short: "Grant or revoke the verified badge",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, log, err := a.load()
			if err != nil {
				return err
			}
			if year == 0 {
				year = a.now().Year()
			}

			store, err := a.openStore(cfg, log)
			if err != nil {
				return err
			}
			defer closeStore(store, log)

			if err := store.SetVerified(args[0], year, !revoke); err != nil {
				return err
			}

			state := "verified"
			if revoke {
				state = "unverified"
			}
			fmt.Fprintf(a.stdout, "%s is now %s for %d.\n", args[0], state, year)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "leaderboard year (default: current year)")
	cmd.Flags().BoolVar(&revoke, "revoke", false, "remove the badge instead")

	return cmd
}

func newLeaderboardRemoveCmd(a *app) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "remove <username>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, log, err := a.load()
			if err != nil {
				return err
			}
			if year == 0 {
				year = a.now().Year()
			}

			store, err := a.openStore(cfg, log)
			if err != nil {
				return err
			}
			defer closeStore(store, log)

			if err := store.Delete(args[0], year); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Removed %s from the %d leaderboard.\n", args[0], year)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "leaderboard year (default: current year)")

	return cmd
}
