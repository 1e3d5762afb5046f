package leaderboard

import "errors"

// Common errors returned by the leaderboard store.
var (
	// ErrMissingFields is returned when a submission lacks username, year,
	// years in code or total contributions.
	ErrMissingFields = errors.New("missing required fields")

	// ErrNotFound is returned when no entry exists for a username and year.
	ErrNotFound = errors.New("leaderboard entry not found")

	// ErrUnknownCategory is returned by ParseCategory.
	ErrUnknownCategory = errors.New("unknown leaderboard category")
)
