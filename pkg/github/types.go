// Package github fetches public contribution history and repository metadata
// for a GitHub user.
//
// Contributions come from a jogruber-compatible endpoint
// (github-contributions-api.jogruber.de/v4/{user}); repositories come from
// the GitHub REST API.
package github

import "time"

// Defaults for Config.
const (
	DefaultContributionsURL = "https://github-contributions-api.jogruber.de"
	DefaultAPIURL           = "https://api.github.com"
	DefaultTimeout          = 15 * time.Second
	DefaultRequestsPerSec   = 5.0
	DefaultUserAgent        = "year-in-code"
)

// Repository sort orders accepted by Repositories.
const (
	SortUpdated = "updated"
	SortDefault = ""
)

// Contribution is one calendar day of the contribution graph.
type Contribution struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
	Level int    `json:"level"`
}

// ContributionHistory is the full contribution history of a user.
type ContributionHistory struct {
	// Total maps a year ("2024") or "lastYear" to the contribution count.
	Total         map[string]int64 `json:"total"`
	Contributions []Contribution   `json:"contributions"`
}

// Repository is the subset of the repository payload used for reports.
type Repository struct {
	Name            string `json:"name"`
	Language        string `json:"language"`
	StargazersCount int64  `json:"stargazers_count"`
	Fork            bool   `json:"fork"`
}

// Config configures a Client. Zero fields take the defaults above.
type Config struct {
	ContributionsURL string
	APIURL           string

	// Token is sent as a bearer token to the REST API when set.
	Token string

	Timeout time.Duration

	// RequestsPerSecond caps outgoing requests. Negative disables the cap.
	RequestsPerSecond float64
}
