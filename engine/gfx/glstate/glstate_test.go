package glstate

import (
	"testing"

	"github.com/hubastard/grove-overlay/engine/gfx"
	"github.com/hubastard/grove-overlay/engine/gfx/gfxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enabledSet(dev *gfxtest.Device) map[gfx.Enum]bool {
	out := map[gfx.Enum]bool{}
	for _, c := range Capabilities {
		if dev.IsEnabled(c) {
			out[c] = true
		}
	}
	return out
}

func TestRoundTripRestoresEveryCapabilitySubset(t *testing.T) {
	for mask := 0; mask < 1<<len(Capabilities); mask++ {
		dev := gfxtest.New()
		want := map[gfx.Enum]bool{}
		for i, c := range Capabilities {
			if mask&(1<<i) != 0 {
				dev.Enable(c)
				want[c] = true
			}
		}

		snap := Capture(dev)
		ApplyOverlayRequirements(dev)
		Restore(dev, snap)

		assert.Equal(t, want, enabledSet(dev), "mask %05b", mask)
	}
}

func TestApplyOverlayRequirements(t *testing.T) {
	dev := gfxtest.New()
	dev.Enable(gfx.DepthTest)
	dev.Enable(gfx.CullFace)

	ApplyOverlayRequirements(dev)
	first := enabledSet(dev)
	ApplyOverlayRequirements(dev)

	assert.Equal(t, first, enabledSet(dev))
	assert.Equal(t, map[gfx.Enum]bool{gfx.ScissorTest: true, gfx.Blend: true, gfx.FramebufferSRGB: true}, first)
	assert.Equal(t, []int32{int32(gfx.One)}, dev.Ints[gfx.BlendSrcRGB])
	assert.Equal(t, []int32{int32(gfx.OneMinusSrcAlpha)}, dev.Ints[gfx.BlendDstAlpha])
}

func TestCaptureDoesNotChangeState(t *testing.T) {
	dev := gfxtest.New()
	dev.Enable(gfx.Blend)
	dev.ActiveTexture(gfx.Texture0 + 3)
	dev.BindTexture(gfx.Texture2D, 77)

	before := enabledSet(dev)
	a := Capture(dev)
	b := Capture(dev)

	assert.True(t, Equal(a, b))
	assert.Equal(t, before, enabledSet(dev))
	assert.Equal(t, uint32(77), dev.BoundTexture())
	assert.Equal(t, gfx.Texture0+3, a.Bindings.ActiveTexture)
}

func TestRestoreBindings(t *testing.T) {
	dev := gfxtest.New()
	dev.UseProgram(42)
	dev.BindVertexArray(7)
	dev.BindBuffer(gfx.ArrayBuffer, 9)
	dev.BindTexture(gfx.Texture2D, 11)
	dev.ActiveTexture(gfx.Texture0 + 2)
	dev.Scissor(1, 2, 3, 4)
	dev.BlendFuncSeparate(gfx.One, 0, gfx.One, 0)

	snap := Capture(dev)

	ApplyOverlayRequirements(dev)
	dev.UseProgram(1)
	dev.ActiveTexture(gfx.Texture0)
	dev.BindTexture(gfx.Texture2D, 5)
	dev.BindVertexArray(2)
	dev.BindBuffer(gfx.ArrayBuffer, 3)
	dev.Scissor(10, 10, 10, 10)

	Restore(dev, snap)

	require.True(t, Equal(snap, Capture(dev)))
	assert.Equal(t, uint32(42), dev.Program())
	assert.Equal(t, []int32{1, 2, 3, 4}, dev.Ints[gfx.ScissorBox])
}

func TestESSkipsFramebufferSRGB(t *testing.T) {
	dev := gfxtest.NewES()
	snap := Capture(dev)
	for _, c := range snap.Capabilities {
		assert.NotEqual(t, gfx.FramebufferSRGB, c.Capability)
	}
	ApplyOverlayRequirements(dev)
	assert.False(t, dev.IsEnabled(gfx.FramebufferSRGB))
}
