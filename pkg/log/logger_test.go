package log

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"warn", WarnLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"loud", InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	mem := &MemoryOutput{}
	logger := NewLogger(WithLevel(WarnLevel), WithOutput(mem))

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")
	logger.Error("kept", Err(errors.New("boom")))

	entries := mem.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, WarnLevel, entries[0].Level)
	assert.Equal(t, ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].Fields["error"])
}

func TestLoggerWithFieldsAccumulate(t *testing.T) {
	mem := &MemoryOutput{}
	base := NewLogger(WithOutput(mem))

	child := base.WithComponent("bootstrap").With(Str("run_id", "abc"))
	child.Info("step started", Str("step", "precheck"))

	entries := mem.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "bootstrap", entries[0].Fields["component"])
	assert.Equal(t, "abc", entries[0].Fields["run_id"])
	assert.Equal(t, "precheck", entries[0].Fields["step"])

	// Parent logger is not mutated by With.
	base.Info("plain")
	entries = mem.Entries()
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[1].Fields, "component")
}

func TestJSONFormatter(t *testing.T) {
	mem := &MemoryOutput{}
	logger := NewLogger(WithFormatter(&JSONFormatter{}), WithOutput(mem))
	logger.Info("hello", Int("count", 3))

	entries := mem.Entries()
	require.Len(t, entries, 1)

	formatted, err := (&JSONFormatter{}).Format(&entries[0])
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(formatted, &decoded))
	assert.Equal(t, "INFO", decoded["level"])
	assert.Equal(t, "hello", decoded["message"])
	assert.Equal(t, float64(3), decoded["count"])
}

func TestTextFormatterSortsFields(t *testing.T) {
	entry := &Entry{
		Level:   InfoLevel,
		Message: "msg",
		Fields:  Fields{"b": 2, "a": 1},
	}
	out, err := (&TextFormatter{DisableTimestamp: true}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[INFO] msg a=1 b=2\n", string(out))
}
