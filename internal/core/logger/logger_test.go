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
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestBuildJSON(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := Build(Options{Level: "info", JSON: true, Out: zapcore.AddSync(&buf)})
	l.Debug("hidden")
	l.Info("booking created", zap.Int64("booking_id", 7))
	cleanup()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "booking created", entry["msg"])
	assert.Equal(t, float64(7), entry["booking_id"])
	assert.Contains(t, entry, "ts")
}

func TestBuildUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := Build(Options{Level: "loud", JSON: true, Out: zapcore.AddSync(&buf)})
	l.Debug("hidden")
	l.Info("shown")
	cleanup()

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestRotateWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	var buf bytes.Buffer
	l, cleanup := Build(Options{
		Level:  "info",
		JSON:   true,
		Out:    zapcore.AddSync(&buf),
		Rotate: FileRotate{Enable: true, Filename: path, MaxSizeMB: 1},
	})
	l.Info("to file")
	cleanup()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "to file")
}

func TestToWriter(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := Build(Options{Level: "debug", JSON: true, Out: zapcore.AddSync(&buf)})
	w := ToWriter(l, zapcore.WarnLevel)
	n, err := w.Write([]byte("[GIN-debug] GET /health\n"))
	cleanup()

	require.NoError(t, err)
	assert.Equal(t, len("[GIN-debug] GET /health\n"), n)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `[GIN-debug] GET /health"`)
}
