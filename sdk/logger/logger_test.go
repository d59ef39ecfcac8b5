package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLevel("Error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewDefault(WithOutput(&buf), WithLevel("DEBUG"), WithAttrs("service", "sessions"))

	log.With("session_id", "abc").InfoContextf(context.Background(), "touched %d", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "touched 1", rec["msg"])
	assert.Equal(t, "sessions", rec["service"])
	assert.Equal(t, "abc", rec["session_id"])
	assert.IsType(t, "", rec["time"])
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewDefault(WithOutput(&buf), WithLevel("WARN"))

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoggerFromEnv(t *testing.T) {
	t.Setenv("SESSIONS_LOG_FORMAT", "text")
	t.Setenv("SESSIONS_LOG_LEVEL", "ERROR")

	var buf bytes.Buffer
	log, err := NewFromEnv("SESSIONS", WithOutput(&buf))
	require.NoError(t, err)

	log.Warn("hidden")
	log.Error("boom")
	assert.Contains(t, buf.String(), "msg=boom")
	assert.NotContains(t, buf.String(), "hidden")
}
