package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"DEBUG", zerolog.DebugLevel},
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"INFO", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestLoggerWritesJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: zerolog.DebugLevel, Output: &buf})
	require.NoError(t, err)

	l.WithFields(F("component", "ledger")).Info("Event saved", F("id", "abc"), F("error", errors.New("boom")))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload))
	assert.Equal(t, "info", payload["level"])
	assert.Equal(t, "Event saved", payload["message"])
	assert.Equal(t, "ledger", payload["component"])
	assert.Equal(t, "abc", payload["id"])
	assert.Equal(t, "boom", payload["error"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: zerolog.WarnLevel, Output: &buf})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "shown")
}

func TestRotationBySize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "timeline.log")
	l, err := New(Config{Level: zerolog.InfoLevel, FilePath: path, MaxSize: 200, MaxAge: 7, MaxBackups: 3})
	require.NoError(t, err)
	defer l.Close()

	for i := 0; i < 10; i++ {
		l.Info("a message long enough to fill the file quickly", F("i", i))
	}

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err, "expected a rotated backup")
	_, err = os.Stat(path + ".4")
	assert.True(t, os.IsNotExist(err), "backups beyond MaxBackups must not exist")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(200))
}
