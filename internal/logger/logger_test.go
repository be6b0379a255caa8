package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/narrate/internal/env"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(env.Production, WithOutput(&buf))

	log.Debug("Hidden")
	log.Info("Visible", "key", "value")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Visible", record["msg"])
	assert.Equal(t, "value", record["key"])
}

func TestNew_DevelopmentIsVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := New(env.Development, WithOutput(&buf))

	log.Debug("Debug message")
	assert.Contains(t, buf.String(), "Debug message")
}

func TestNew_LevelOverride(t *testing.T) {
	var buf bytes.Buffer
	log := New(env.Development, WithOutput(&buf), WithLevel(slog.LevelWarn))

	log.Info("Dropped")
	assert.Empty(t, buf.String())
}

func TestNew_LogToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "narrate.log")
	log := New(env.Production,
		WithOutput(&buf),
		WithLogToFile(true),
		WithLogFile(path),
	)

	log.Info("Teed", "n", 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Teed"`)
	assert.Contains(t, buf.String(), `"msg":"Teed"`)
}
