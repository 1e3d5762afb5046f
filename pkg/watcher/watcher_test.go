package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/0xmhha/year-in-code/pkg/logger"
)

const testDebounce = 50 * time.Millisecond

func newTestWatcher(t *testing.T) Watcher {
	t.Helper()
	w, err := New(Config{DebounceInterval: testDebounce}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := w.Close(); err != nil {
			t.Logf("Close() error = %v", err)
		}
	})
	return w
}

func startWatcher(t *testing.T, w Watcher, paths ...string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx, paths); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
}

// waitBatch returns the next batch or fails after timeout.
func waitBatch(t *testing.T, w Watcher, timeout time.Duration) Batch {
	t.Helper()
	select {
	case b, ok := <-w.Events():
		if !ok {
			t.Fatal("events channel closed")
		}
		return b
	case <-time.After(timeout):
		t.Fatal("timeout waiting for batch")
	}
	return Batch{}
}

func expectNoBatch(t *testing.T, w Watcher, wait time.Duration) {
	t.Helper()
	select {
	case b := <-w.Events():
		t.Errorf("unexpected batch: %v", b.Paths())
	case <-time.After(wait):
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestNew(t *testing.T) {
	w, err := New(Config{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if closeErr := w.Close(); closeErr != nil {
		t.Errorf("Close() error = %v", closeErr)
	}
}

func TestStartInvalidPath(t *testing.T) {
	w := newTestWatcher(t)

	err := w.Start(context.Background(), []string{filepath.Join(t.TempDir(), "nonexistent")})
	if !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("Start() error = %v, want ErrInvalidPath", err)
	}

	// A failed start leaves the watcher startable.
	startWatcher(t, w, t.TempDir())
}

func TestStartAlreadyStarted(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()
	startWatcher(t, w, dir)

	if err := w.Start(context.Background(), []string{dir}); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
}

func TestFileCreate(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()
	startWatcher(t, w, dir)

	path := filepath.Join(dir, "session.jsonl")
	writeFile(t, path, `{"timestamp":"2025-01-01T00:00:00Z"}`+"\n")

	b := waitBatch(t, w, 2*time.Second)
	if paths := b.Paths(); len(paths) != 1 || paths[0] != path {
		t.Errorf("batch paths = %v, want [%s]", paths, path)
	}
}

func TestDebouncingCoalescesBurst(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()

	a := filepath.Join(dir, "a.jsonl")
	b := filepath.Join(dir, "b.jsonl")
	writeFile(t, a, "")
	writeFile(t, b, "")
	startWatcher(t, w, dir)

	for i := 0; i < 5; i++ {
		writeFile(t, a, "line\n")
		writeFile(t, b, "line\n")
		time.Sleep(5 * time.Millisecond)
	}

	batch := waitBatch(t, w, 2*time.Second)
	paths := batch.Paths()
	if len(paths) != 2 || paths[0] != a || paths[1] != b {
		t.Errorf("batch paths = %v, want [%s %s]", paths, a, b)
	}
	if len(batch.Events) < 2 {
		t.Errorf("batch has %d events, want at least 2", len(batch.Events))
	}

	expectNoBatch(t, w, 4*testDebounce)
}

func TestUnwatchedExtensionsIgnored(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()
	startWatcher(t, w, dir)

	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, "data.yaml"), "ignored")

	expectNoBatch(t, w, 4*testDebounce)
}

func TestSingleFileWatch(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()

	target := filepath.Join(dir, "ccusage.json")
	writeFile(t, target, "{}")
	startWatcher(t, w, target)

	// Siblings of a watched file are ignored, whatever their extension.
	writeFile(t, filepath.Join(dir, "other.json"), "{}")
	expectNoBatch(t, w, 4*testDebounce)

	writeFile(t, target, `{"stats":{}}`)
	b := waitBatch(t, w, 2*time.Second)
	if paths := b.Paths(); len(paths) != 1 || paths[0] != target {
		t.Errorf("batch paths = %v, want [%s]", paths, target)
	}
}

func TestSubdirectoryWatching(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()
	existing := filepath.Join(dir, "project1")
	if err := os.MkdirAll(existing, 0700); err != nil {
		t.Fatal(err)
	}
	startWatcher(t, w, dir)

	path := filepath.Join(existing, "s.jsonl")
	writeFile(t, path, "x\n")
	if paths := waitBatch(t, w, 2*time.Second).Paths(); len(paths) != 1 || paths[0] != path {
		t.Errorf("batch paths = %v, want [%s]", paths, path)
	}

	// Directories created after Start are picked up.
	created := filepath.Join(dir, "project2")
	if err := os.MkdirAll(created, 0700); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * testDebounce)

	path = filepath.Join(created, "s.jsonl")
	writeFile(t, path, "x\n")
	if paths := waitBatch(t, w, 2*time.Second).Paths(); len(paths) != 1 || paths[0] != path {
		t.Errorf("batch paths = %v, want [%s]", paths, path)
	}
}

func TestBatchPaths(t *testing.T) {
	b := Batch{Events: []Event{
		{Path: "/b.jsonl", Op: OpWrite},
		{Path: "/a.jsonl", Op: OpCreate},
		{Path: "/b.jsonl", Op: OpWrite},
	}}

	paths := b.Paths()
	if len(paths) != 2 || paths[0] != "/a.jsonl" || paths[1] != "/b.jsonl" {
		t.Errorf("Paths() = %v", paths)
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpChmod, "CHMOD"},
		{Op(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %v, want %v", tt.op, got, tt.want)
		}
	}
}

func TestStopNotStarted(t *testing.T) {
	w := newTestWatcher(t)
	if err := w.Stop(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Stop() error = %v, want ErrNotStarted", err)
	}
}

func TestStopThenRestart(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()
	startWatcher(t, w, dir)

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	startWatcher(t, w, dir)
}

func TestCloseTwice(t *testing.T) {
	w, err := New(Config{}, logger.Noop())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if _, ok := <-w.Events(); ok {
		t.Error("events channel should be closed")
	}
}

func TestStartAfterClose(t *testing.T) {
	w, err := New(Config{}, logger.Noop())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if err := w.Start(context.Background(), []string{t.TempDir()}); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Start() error = %v, want ErrWatcherClosed", err)
	}
	if err := w.Stop(); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Stop() error = %v, want ErrWatcherClosed", err)
	}
}
