//go:build profile

package profiler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpSpeedscope(t *testing.T) {
	Init(64)
	require.True(t, Enabled())

	func() {
		defer Start("overlay.frame")()
		defer Start("painter.Draw")()
	}()

	path := filepath.Join(t.TempDir(), "overlay.speedscope.json")
	require.NoError(t, Dump(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc ssFile
	require.NoError(t, json.Unmarshal(b, &doc))

	require.Len(t, doc.Profiles, 1)
	assert.Len(t, doc.Profiles[0].Events, 4)
	assert.Contains(t, doc.Shared.Frames, ssFrame{Name: "painter.Draw"})
}

func TestRingKeepsNewest(t *testing.T) {
	var r evRing
	r.init(2)
	for i := range 3 {
		r.push(evEntry{FrameID: i})
	}
	evs := r.snapshot()
	require.Len(t, evs, 2)
	assert.Equal(t, 1, evs[0].FrameID)
	assert.Equal(t, 2, evs[1].FrameID)
}
