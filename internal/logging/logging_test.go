package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestLogger_JSONFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithFormat(LevelWarn, FormatJSON, &buf)

	l.Debug("hidden %d", 1)
	l.Info("hidden too")
	l.Warn("shown %s", "warn")
	l.Error("shown %s", "error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "shown warn", entry["message"])
}

func TestLogger_WithAddsField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithFormat(LevelDebug, FormatJSON, &buf).With("component", "ranker")
	l.Info("ranked %d targets", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ranker", entry["component"])
	assert.Equal(t, "ranked 3 targets", entry["message"])
}

func TestLogger_SetLevelAndOutput(t *testing.T) {
	var first, second bytes.Buffer
	l := NewWithFormat(LevelError, FormatConsole, &first)
	l.Info("dropped")
	assert.Empty(t, first.String())

	l.SetLevel(LevelInfo)
	l.SetOutput(&second)
	l.Info("kept")
	assert.Contains(t, second.String(), "kept")
	assert.Contains(t, second.String(), "INF")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Debug("x")
	l.Error("y")
	l.With("k", "v").Info("z")
}
