package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, level, err := New(Config{Level: "info", Format: "json", Output: &buf, RunID: "run-1"})
	assert.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, level.Level())

	logger.Debug("hidden")
	logger.Info("ledger processed", zap.Int("applied", 3))
	assert.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 1, len(lines))

	var entry map[string]any
	assert.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "ledger processed", entry["msg"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, any(float64(3)), entry["applied"])
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Config{Level: "warn", Output: &buf})
	assert.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("skipping malformed row", zap.Int("line", 3))

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "skipping malformed row")
	assert.Contains(t, out, `"line": 3`)
	assert.Contains(t, out, "run_id")
	assert.NotContains(t, out, "hidden")
}

func TestNewLevelAdjustable(t *testing.T) {
	var buf bytes.Buffer
	logger, level, err := New(Config{Level: "error", Output: &buf})
	assert.NoError(t, err)

	logger.Info("before")
	level.SetLevel(zapcore.DebugLevel)
	logger.Info("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
}

func TestNewErrors(t *testing.T) {
	_, _, err := New(Config{Level: "loud"})
	assert.Error(t, err)

	_, _, err = New(Config{Format: "logfmt"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"", zapcore.ErrorLevel},
		{"debug", zapcore.DebugLevel},
		{" INFO ", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, level.Level())
		})
	}
}

func TestNewRunID(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	assert.NotEqual(t, a, b)

	id, err := uuid.Parse(a)
	assert.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestContext(t *testing.T) {
	assert.NotZero(t, FromContext(context.Background()))

	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	assert.True(t, FromContext(ctx) == logger)
}
