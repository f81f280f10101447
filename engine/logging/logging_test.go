package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grove-overlay/engine/config"
)

func TestSilentByDefault(t *testing.T) {
	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}

func TestThreadAddsTID(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(New(&buf, slog.LevelInfo))
	t.Cleanup(func() { SetLogger(nil) })

	Thread().Info("frame")
	out := buf.String()
	assert.Contains(t, out, "msg=frame")
	assert.Contains(t, out, "tid=")
	assert.Contains(t, out, "session="+Session)
}

func TestParseLevel(t *testing.T) {
	l, on, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, slog.LevelWarn, l)

	_, on, err = ParseLevel("off")
	require.NoError(t, err)
	assert.False(t, on)

	_, _, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestConfigureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.log")
	closeFn, err := Configure(config.Log{Level: "info", File: path})
	require.NoError(t, err)
	t.Cleanup(func() { SetLogger(nil) })

	Logger().Debug("hidden")
	Logger().Info("shown")
	require.NoError(t, closeFn())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "shown")
	assert.NotContains(t, string(b), "hidden")
}

func TestConfigureOff(t *testing.T) {
	closeFn, err := Configure(config.Log{Level: "off"})
	require.NoError(t, err)
	assert.NoError(t, closeFn())
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}
