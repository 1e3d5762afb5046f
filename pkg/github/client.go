package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/time/rate"

	"github.com/0xmhha/year-in-code/pkg/logger"
)

// maxBodyBytes bounds upstream response bodies.
const maxBodyBytes = 16 << 20

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,37}[A-Za-z0-9])?$`)

// ValidateUsername checks name against GitHub's username rules.
func ValidateUsername(name string) error {
	if !usernamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidUsername, name)
	}
	return nil
}

// Client fetches GitHub data. It is safe for concurrent use.
type Client struct {
	http             *http.Client
	contributionsURL string
	apiURL           string
	token            string
	limiter          *rate.Limiter
	logger           logger.Logger
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.Noop()
	}
	if cfg.ContributionsURL == "" {
		cfg.ContributionsURL = DefaultContributionsURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSec
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		http:             &http.Client{Timeout: cfg.Timeout},
		contributionsURL: strings.TrimRight(cfg.ContributionsURL, "/"),
		apiURL:           strings.TrimRight(cfg.APIURL, "/"),
		token:            cfg.Token,
		limiter:          rate.NewLimiter(limit, 1),
		logger:           log.Named("github"),
	}
}

// Contributions returns the full contribution history of username.
func (c *Client) Contributions(ctx context.Context, username string) (*ContributionHistory, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v4/%s", c.contributionsURL, url.PathEscape(username))
	var history ContributionHistory
	if err := c.getJSON(ctx, endpoint, false, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// Repositories returns up to 100 public repositories of username. sortBy is
// passed through as the sort query parameter when non-empty.
func (c *Client) Repositories(ctx context.Context, username, sortBy string) ([]Repository, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("per_page", "100")
	if sortBy != "" {
		q.Set("sort", sortBy)
	}
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.apiURL, url.PathEscape(username), q.Encode())

	var repos []Repository
	if err := c.getJSON(ctx, endpoint, true, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, api bool, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", DefaultUserAgent)
	if api {
		req.Header.Set("Accept", "application/vnd.github+json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", "url", endpoint, "error", closeErr)
		}
	}()

	c.logger.Debug("upstream response", "url", endpoint, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: endpoint, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
