package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackWriterAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log, closeLog, err := New(slog.LevelWarn, "", &buf)
	require.NoError(t, err)
	defer closeLog()

	log.Info("hidden")
	log.Error("add todo", "err", "boom")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `msg="add todo" err=boom`)
}

func TestFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tada.log")
	log, closeLog, err := New(slog.LevelDebug, p, nil)
	require.NoError(t, err)
	log.Debug("loaded", "count", 3)
	require.NoError(t, closeLog())

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "count=3")
}

func TestNilFallbackDiscards(t *testing.T) {
	log, closeLog, err := New(slog.LevelDebug, "", nil)
	require.NoError(t, err)
	assert.NoError(t, closeLog())
	log.Error("nowhere")
}

func TestBadPath(t *testing.T) {
	_, closeLog, err := New(slog.LevelInfo, filepath.Join(t.TempDir(), "missing", "x.log"), nil)
	assert.Error(t, err)
	assert.NoError(t, closeLog())
}
