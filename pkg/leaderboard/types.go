// Package leaderboard stores one yearly GitHub summary per user in a BoltDB
// file and serves ranked queries over it.
//
// Example usage:
//
//	store, err := leaderboard.New(leaderboard.Config{
//	    DBPath: "~/.config/year-in-code/leaderboard.db",
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	page, err := store.Query(leaderboard.Query{Year: 2025, Category: leaderboard.CategoryStreak})
package leaderboard

import (
	"fmt"
	"strings"
	"time"
)

// DefaultLimit is the page size when Query.Limit is 0.
const DefaultLimit = 100

// Category selects the ranking order of a query.
type Category string

// Ranking categories. Every category breaks remaining ties by username.
const (
	// CategoryContributions ranks by contributions, then longest streak.
	CategoryContributions Category = "contributions"

	// CategoryStreak ranks by longest streak, then contributions.
	CategoryStreak Category = "streak"

	// CategoryYears ranks by years in code, then contributions.
	CategoryYears Category = "years"

	// CategoryStars ranks by stars, then contributions.
	CategoryStars Category = "stars"
)

// Categories lists every category.
var Categories = []Category{CategoryContributions, CategoryStreak, CategoryYears, CategoryStars}

// ParseCategory parses a category name. The empty string means
// CategoryContributions.
func ParseCategory(name string) (Category, error) {
	if name == "" {
		return CategoryContributions, nil
	}
	c := Category(strings.ToLower(name))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// Entry is one user's leaderboard row for one year.
type Entry struct {
	Username           string     `json:"username"`
	AvatarURL          string     `json:"avatarUrl,omitempty"`
	Year               int        `json:"year"`
	YearsInCode        int        `json:"yearsInCode"`
	TotalContributions int64      `json:"totalContributions"`
	LongestStreak      int        `json:"longestStreak"`
	TotalStars         int64      `json:"totalStars"`
	TopLanguages       []string   `json:"topLanguages"`
	FirstCommitDate    *time.Time `json:"firstCommitDate,omitempty"`
	HasVerifiedBadge   bool       `json:"hasVerifiedBadge"`
	SubmittedAt        time.Time  `json:"submittedAt"`
}

// SubmitRequest carries a submission. Pointer fields distinguish a zero
// value from an absent one.
type SubmitRequest struct {
	Username           string     `json:"username"`
	AvatarURL          string     `json:"avatarUrl,omitempty"`
	Year               int        `json:"year"`
	YearsInCode        *int       `json:"yearsInCode"`
	TotalContributions *int64     `json:"totalContributions"`
	LongestStreak      int        `json:"longestStreak,omitempty"`
	TotalStars         int64      `json:"totalStars,omitempty"`
	TopLanguages       []string   `json:"topLanguages,omitempty"`
	FirstCommitDate    *time.Time `json:"firstCommitDate,omitempty"`
}

// Validate checks the required fields.
func (r SubmitRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Username) == "" {
		missing = append(missing, "username")
	}
	if r.Year == 0 {
		missing = append(missing, "year")
	}
	if r.YearsInCode == nil {
		missing = append(missing, "yearsInCode")
	}
	if r.TotalContributions == nil {
		missing = append(missing, "totalContributions")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	return nil
}

// Query selects and orders entries.
type Query struct {
	// Year filters entries. 0 means the current year.
	Year int

	Category Category

	// Search keeps usernames containing it, case-insensitively.
	Search string

	// Limit caps the page. 0 means DefaultLimit, negative means no cap.
	Limit int
}

// Page is a query result.
type Page struct {
	Entries []Entry `json:"entries"`

	// TotalCount counts every entry of the year, regardless of Search and
	// Limit.
	TotalCount int      `json:"totalCount"`
	Year       int      `json:"year"`
	Category   Category `json:"category"`
}

// Store persists leaderboard entries.
type Store interface {
	// Submit upserts the entry for (username, year). Usernames compare
	// case-insensitively; the badge flag survives resubmission.
	Submit(req SubmitRequest) (*Entry, error)

	// Get returns the entry for username and year, or ErrNotFound.
	Get(username string, year int) (*Entry, error)

	// Query returns a ranked page.
	Query(q Query) (*Page, error)

	// SetVerified sets the badge flag of an existing entry.
	SetVerified(username string, year int, verified bool) error

	// Delete removes an entry. Missing entries are not an error.
	Delete(username string, year int) error

	// Close closes the database.
	Close() error
}

// Config contains store configuration.
type Config struct {
	// DBPath is the BoltDB file path. A leading ~ expands to the home
	// directory.
	DBPath string

	// Timeout is the file lock timeout (default: 1 second).
	Timeout time.Duration

	// Now returns submission timestamps. Defaults to time.Now.
	Now func() time.Time
}
