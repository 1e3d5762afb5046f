// Package watcher reports changes to usage logs so a report can be rebuilt.
//
// It uses fsnotify to watch directories recursively and single files through
// their parent directory, and coalesces bursts of events into one Batch.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    DebounceInterval: 300 * time.Millisecond,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Start(ctx, []string{"~/.claude/projects"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	for batch := range w.Events() {
//	    fmt.Printf("%d files changed\n", len(batch.Paths()))
//	}
package watcher

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"
)

// Op describes a file operation type.
type Op uint32

// File operation types.
const (
	OpCreate Op = 1 << iota // File created
	OpWrite                 // File modified
	OpRemove                // File deleted
	OpRename                // File renamed/moved
	OpChmod                 // File permissions changed
)

// String returns a human-readable operation name.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	case OpChmod:
		return "CHMOD"
	default:
		return "UNKNOWN"
	}
}

// Event represents a file system event.
type Event struct {
	// Path is the cleaned path of the file that triggered the event.
	Path string

	// Op is the operation that triggered the event.
	Op Op

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Batch is every event seen during one quiet period.
type Batch struct {
	Events []Event

	// At is when the batch was emitted.
	At time.Time
}

// Paths returns the distinct changed paths, sorted.
func (b Batch) Paths() []string {
	paths := lo.Uniq(lo.Map(b.Events, func(e Event, _ int) string {
		return e.Path
	}))
	sort.Strings(paths)
	return paths
}

// Watcher provides file system monitoring.
type Watcher interface {
	// Start begins watching the specified paths and returns once the
	// watches are registered. Directories are watched recursively for files
	// with a configured extension; files are watched by exact path.
	//
	// Missing paths are skipped with a warning. Returns ErrInvalidPath if
	// none exists. Processing stops when ctx is cancelled.
	Start(ctx context.Context, paths []string) error

	// Stop halts event processing.
	Stop() error

	// Events returns the channel of debounced batches.
	//
	// The channel is closed when the watcher is closed.
	Events() <-chan Batch

	// Errors returns the channel for receiving watcher errors.
	//
	// Non-fatal errors are sent to this channel.
	// The channel is closed when the watcher is closed.
	Errors() <-chan error

	// Close closes the watcher and releases resources.
	Close() error
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval is the quiet period that ends a batch.
	// Default: 300ms.
	DebounceInterval time.Duration

	// Extensions selects files inside watched directories.
	// Default: .jsonl and .json.
	Extensions []string

	// CircuitBreakerThreshold is the number of fsnotify errors after which
	// only ErrCircuitBreakerOpen is reported.
	// Default: 5.
	CircuitBreakerThreshold int
}
