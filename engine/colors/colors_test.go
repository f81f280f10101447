package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSRGBA8(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want [4]uint8
	}{
		{"white", White, [4]uint8{255, 255, 255, 255}},
		{"black", Black, [4]uint8{0, 0, 0, 255}},
		{"transparent", Red.WithAlpha(0), [4]uint8{0, 0, 0, 0}},
		{"yellow", Yellow, [4]uint8{255, 255, 0, 255}},
		{"clamped", Color{2, -1, 0, 1}, [4]uint8{255, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.SRGBA8())
		})
	}
}

func TestSRGBA8PremultipliesInLinearSpace(t *testing.T) {
	got := White.WithAlpha(0.5).SRGBA8()
	assert.Equal(t, uint8(128), got[3])
	// Half of linear white is about 188 in sRGB, not 128.
	assert.InDelta(t, 188, int(got[0]), 1)
	assert.Equal(t, got[0], got[1])
	assert.Equal(t, got[0], got[2])
}

func TestScale(t *testing.T) {
	assert.Equal(t, Color{1, 1, 1, 0.25}, White.WithAlpha(0.5).Scale(0.5))
}
