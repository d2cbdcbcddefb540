package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logiface.Level
	}{
		{"trace", logiface.LevelTrace},
		{"DEBUG", logiface.LevelDebug},
		{"", logiface.LevelInformational},
		{"info", logiface.LevelInformational},
		{" notice ", logiface.LevelNotice},
		{"warn", logiface.LevelWarning},
		{"warning", logiface.LevelWarning},
		{"error", logiface.LevelError},
		{"off", logiface.LevelDisabled},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, "ParseLevel(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseLevel(%q)", tt.in)
	}

	_, err := ParseLevel("verbose")
	assert.True(t, errors.Is(err, ErrInvalidLevel))
}

func TestNew_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Component(New(&buf, logiface.LevelInformational), "engine")

	l.Debug().Str("hidden", "yes").Log("filtered out")
	l.Info().Uint64("id", 7).Log("notification shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "engine", rec["component"])
	assert.Equal(t, "notification shown", rec["msg"])
	assert.Contains(t, rec, "time")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Info().Str("k", "v").Log("nothing")
		Component(l, "x").Err().Log("still nothing")
	})
}
