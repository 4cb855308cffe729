package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestComponentFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Output: &buf})

	log.Component("analysis").With("session", "s-1").Info().Msg("batch settled")

	ev := decode(t, &buf)
	assert.Equal(t, "insights", ev["service"])
	assert.Equal(t, "analysis", ev["component"])
	assert.Equal(t, "s-1", ev["session"])
	assert.Equal(t, "batch settled", ev["message"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})

	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "chatty", Output: &buf})

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	log.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestLogRequestLevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Output: &buf})

	log.LogRequest("GET", "/v1/sessions/x/stats", 404, time.Millisecond, 10, "127.0.0.1", "test")
	ev := decode(t, &buf)
	assert.Equal(t, "warn", ev["level"])
	assert.EqualValues(t, 404, ev["status"])
}
