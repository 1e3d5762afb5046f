package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		present []string
		absent  []string
	}{
		{
			name:    "debug shows everything",
			level:   "debug",
			present: []string{"debug message", "info message", "warn message", "error message"},
		},
		{
			name:    "warn drops debug and info",
			level:   "warn",
			present: []string{"warn message", "error message"},
			absent:  []string{"debug message", "info message"},
		},
		{
			name:    "unknown level behaves as info",
			level:   "loud",
			present: []string{"info message"},
			absent:  []string{"debug message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&buf, Config{Level: tt.level, Format: "text"})

			log.Debug("debug message")
			log.Info("info message")
			log.Warn("warn message")
			log.Error("error message")

			out := buf.String()
			for _, s := range tt.present {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestWithAndNamed(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, Config{Level: "info", Format: "text"})

	log.Named("adapter").With("source", "daily").Info("report built", "active_days", 3)

	out := buf.String()
	assert.Contains(t, out, "component=adapter")
	assert.Contains(t, out, "source=daily")
	assert.Contains(t, out, "active_days=3")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, Config{Level: "info", Format: "json"})

	log.Info("fetch done", "user", "octocat", "count", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fetch done", entry["msg"])
	assert.Equal(t, "octocat", entry["user"])
	assert.Equal(t, float64(42), entry["count"])
}

func TestFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "yearincode.log")

	log := New(Config{Level: "info", Output: logFile, Format: "text"})
	log.Info("message 1")
	log.Error("message 2")

	data, err := os.ReadFile(logFile) // nolint:gosec
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "message 1"))
	assert.True(t, strings.Contains(string(data), "message 2"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"", "INFO"},
		{"DEBUG", "DEBUG"},
		{"WaRn", "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.level).String())
		})
	}
}

func TestOpenWriter(t *testing.T) {
	for _, output := range []string{"stdout", "stderr", "", "STDOUT"} {
		w, err := openWriter(output)
		require.NoError(t, err, output)
		assert.NotNil(t, w)
	}

	_, err := openWriter(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	log := Noop()
	log.Debug("debug")
	log.Named("x").With("k", "v").Error("error")
}

func BenchmarkLogWithFields(b *testing.B) {
	log := Noop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Info("benchmark message", "key1", "value1", "key2", 42)
	}
}
