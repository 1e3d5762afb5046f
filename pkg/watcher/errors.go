package watcher

import "errors"

var (
	ErrWatcherClosed  = errors.New("watcher is closed")
	ErrAlreadyStarted = errors.New("watcher already started")
	ErrNotStarted     = errors.New("watcher not started")

	// ErrCircuitBreakerOpen replaces fsnotify errors on Errors once
	// Config.CircuitBreakerThreshold of them have been seen.
	ErrCircuitBreakerOpen = errors.New("too many watch errors")

	// ErrInvalidPath is returned by Start when none of the given paths exist.
	ErrInvalidPath = errors.New("no watchable input path")
)
