package adapter

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/0xmhha/year-in-code/pkg/github"
	"github.com/0xmhha/year-in-code/pkg/ranking"
	"github.com/0xmhha/year-in-code/pkg/stats"
	"github.com/0xmhha/year-in-code/pkg/streak"
)

// NoLanguageLabel is the placeholder language when none is known.
const NoLanguageLabel = "N/A"

// Defaults when a GitHub history has no activity for the target year.
const (
	DefaultActiveDay   = "Monday"
	DefaultActiveMonth = "January"
)

const daysPerYear = 365.25

// GitHubSource fetches GitHub data. *github.Client implements it.
type GitHubSource interface {
	Contributions(ctx context.Context, username string) (*github.ContributionHistory, error)
	Repositories(ctx context.Context, username, sortBy string) ([]github.Repository, error)
}

// GitHub builds a contribution report for username in year. A year of 0
// means the current year.
//
// The contribution history fetch is required; a failure is returned wrapped
// in ErrUpstreamFetch, and a nil history counts as empty. The language and
// star lookups run concurrently afterwards and degrade to empty values on
// failure.
func GitHub(ctx context.Context, src GitHubSource, username string, year int, opts Options) (*stats.YearStats, error) {
	log := opts.log().Named("adapter.github").With("username", username)
	now := opts.now()
	if year == 0 {
		year = now.Year()
	}

	history, err := src.Contributions(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFetch, err)
	}
	if history == nil {
		history = &github.ContributionHistory{}
	}

	// The lookups share ctx but not each other's failure: one failing must
	// not cancel the other.
	var (
		languages map[string]int64
		stars     int64
		g         errgroup.Group
	)
	g.Go(func() error {
		repos, err := src.Repositories(ctx, username, github.SortUpdated)
		if err != nil {
			return fmt.Errorf("language lookup: %w", err)
		}
		languages = countLanguages(repos)
		return nil
	})
	g.Go(func() error {
		repos, err := src.Repositories(ctx, username, github.SortDefault)
		if err != nil {
			return fmt.Errorf("star lookup: %w", err)
		}
		stars = countStars(repos)
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn("auxiliary lookup failed, report degraded", "error", err)
	}

	days, total := yearContributions(history.Contributions, year)

	active := make([]string, 0, len(days))
	window := make([]streak.Day, 0, len(days))
	for _, d := range days {
		if d.Tokens > 0 {
			active = append(active, d.Date)
		}
		window = append(window, streak.Day{Date: d.Date, Count: d.Tokens})
	}
	runs := streak.Longest(active)

	activeDays := stats.ActiveDays(days)
	mostActiveDay := mostActiveWeekday(days)

	report := &stats.YearStats{
		Year:            year,
		TotalTokens:     total,
		ActiveDays:      activeDays,
		CurrentStreak:   streak.Backward(window, now),
		LongestStreak:   runs.Longest,
		TotalSessions:   activeDays,
		TopModels:       languageEntries(languages, total, opts.limit()),
		DailyData:       days,
		PeakDay:         mostActiveDay,
		MostActiveDay:   mostActiveDay,
		MostActiveMonth: mostActiveMonth(days),
		TotalStars:      &stars,
		Source:          stats.SourceGitHub,
	}

	years := 0
	if first, ok := firstContribution(history.Contributions); ok {
		report.FirstContributionDate = &first
		years = yearsOfCoding(first, now)
	}
	report.YearsOfCoding = &years

	log.Info("built GitHub report",
		"year", year,
		"contributions", total,
		"active_days", activeDays)

	return report, nil
}

// yearContributions returns the contributions dated in year, ascending, and
// their total.
func yearContributions(all []github.Contribution, year int) ([]stats.Day, int64) {
	prefix := strconv.Itoa(year) + "-"
	byDate := make(map[string]int64)
	for _, c := range all {
		if !strings.HasPrefix(c.Date, prefix) {
			continue
		}
		count := c.Count
		if count < 0 {
			count = 0
		}
		byDate[c.Date] += count
	}

	days := make([]stats.Day, 0, len(byDate))
	var total int64
	for date, count := range byDate {
		days = append(days, stats.Day{Date: date, Tokens: count})
		total += count
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, total
}

func countLanguages(repos []github.Repository) map[string]int64 {
	counts := make(map[string]int64)
	for _, r := range repos {
		if r.Language != "" {
			counts[r.Language]++
		}
	}
	return counts
}

func countStars(repos []github.Repository) int64 {
	var total int64
	for _, r := range repos {
		if r.StargazersCount > 0 {
			total += r.StargazersCount
		}
	}
	return total
}

// languageEntries ranks languages by repository count and scales each share
// onto the contribution total.
func languageEntries(counts map[string]int64, contributions int64, limit int) []ranking.Entry {
	var repos int64
	for _, n := range counts {
		repos += n
	}

	ranked := ranking.Rank(counts, repos, ranking.Options{Limit: limit})
	if len(ranked) == 0 {
		return []ranking.Entry{{Label: NoLanguageLabel}}
	}

	entries := make([]ranking.Entry, 0, len(ranked))
	for _, e := range ranked {
		entries = append(entries, ranking.Entry{
			Label:      e.Label,
			Count:      int64(math.Round(e.Percentage / 100 * float64(contributions))),
			Percentage: e.Percentage,
		})
	}
	return entries
}

// mostActiveWeekday sums counts per weekday and returns the busiest one,
// scanning Sunday to Saturday so the earliest weekday wins ties.
func mostActiveWeekday(days []stats.Day) string {
	var sums [7]int64
	for _, d := range days {
		t, err := time.Parse(dateLayout, d.Date)
		if err != nil {
			continue
		}
		sums[t.Weekday()] += d.Tokens
	}

	best, most := DefaultActiveDay, int64(0)
	for wd, n := range sums {
		if n > most {
			best, most = time.Weekday(wd).String(), n
		}
	}
	return best
}

// mostActiveMonth sums counts per month, scanning January to December.
func mostActiveMonth(days []stats.Day) string {
	var sums [12]int64
	for _, d := range days {
		t, err := time.Parse(dateLayout, d.Date)
		if err != nil {
			continue
		}
		sums[t.Month()-1] += d.Tokens
	}

	best, most := DefaultActiveMonth, int64(0)
	for m, n := range sums {
		if n > most {
			best, most = time.Month(m+1).String(), n
		}
	}
	return best
}

// firstContribution returns the earliest date with a positive count across
// the whole history.
func firstContribution(all []github.Contribution) (string, bool) {
	first := ""
	for _, c := range all {
		if c.Count <= 0 {
			continue
		}
		if _, err := time.Parse(dateLayout, c.Date); err != nil {
			continue
		}
		if first == "" || c.Date < first {
			first = c.Date
		}
	}
	return first, first != ""
}

// yearsOfCoding is ceil((now - first) / 365.25 days).
func yearsOfCoding(first string, now time.Time) int {
	t, err := time.Parse(dateLayout, first)
	if err != nil {
		return 0
	}
	years := now.Sub(t).Hours() / 24 / daysPerYear
	if years <= 0 {
		return 0
	}
	return int(math.Ceil(years))
}
