package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesJSON(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter(Config{Level: "info"}, &buf))

	l := WithComponent("reports")
	l.Info().Str("report", "fuel").Msg("fetched")
	l.Debug().Msg("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "reports", entry["component"])
	assert.Equal(t, "fuel", entry["report"])
	assert.Equal(t, "fetched", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	assert.Error(t, InitWithWriter(Config{Level: "loud"}, &bytes.Buffer{}))
}

func TestEnvOverridesLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter(Config{Level: "error"}, &buf))

	Debug().Msg("visible")

	assert.Contains(t, buf.String(), "visible")
}
