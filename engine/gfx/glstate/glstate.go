// Package glstate saves and restores the parts of a host GL context the
// overlay renderer touches.
package glstate

import "github.com/hubastard/grove-overlay/engine/gfx"

// Capabilities lists every capability the overlay changes, in capture order.
var Capabilities = []gfx.Enum{
	gfx.DepthTest,
	gfx.ScissorTest,
	gfx.Blend,
	gfx.CullFace,
	gfx.FramebufferSRGB,
}

type CapabilityState struct {
	Capability gfx.Enum
	Enabled    bool
}

// Bindings is the non-capability state the painter overwrites.
type Bindings struct {
	Program       uint32
	ActiveTexture gfx.Enum
	Texture2D     uint32
	VertexArray   uint32
	ArrayBuffer   uint32
	BlendFunc     [4]gfx.Enum // src rgb, dst rgb, src alpha, dst alpha
	ScissorBox    [4]int32
}

// Snapshot is valid for one frame.
type Snapshot struct {
	Capabilities []CapabilityState
	Bindings     Bindings
}

// Capture reads the host state without changing it. The texture binding is
// read on the host's active unit and on unit 0, which the painter uses.
func Capture(dev gfx.Device) Snapshot {
	var s Snapshot
	s.Capabilities = make([]CapabilityState, 0, len(Capabilities))
	for _, c := range Capabilities {
		if !gfx.SupportsCapability(dev, c) {
			continue
		}
		s.Capabilities = append(s.Capabilities, CapabilityState{Capability: c, Enabled: dev.IsEnabled(c)})
	}
	s.Bindings = captureBindings(dev)
	return s
}

// ApplyOverlayRequirements forces the state the painter relies on. It sets
// rather than toggles, so calling it twice is harmless.
func ApplyOverlayRequirements(dev gfx.Device) {
	dev.Enable(gfx.ScissorTest)
	dev.Enable(gfx.Blend)
	dev.BlendFuncSeparate(gfx.One, gfx.OneMinusSrcAlpha, gfx.One, gfx.OneMinusSrcAlpha) // premultiplied alpha
	dev.Disable(gfx.DepthTest)
	dev.Disable(gfx.CullFace)
	if gfx.SupportsCapability(dev, gfx.FramebufferSRGB) {
		dev.Enable(gfx.FramebufferSRGB)
	}
}

// Restore puts back every captured capability and binding.
func Restore(dev gfx.Device, s Snapshot) {
	for _, c := range s.Capabilities {
		if c.Enabled {
			dev.Enable(c.Capability)
		} else {
			dev.Disable(c.Capability)
		}
	}
	restoreBindings(dev, s.Bindings)
}

func captureBindings(dev gfx.Device) Bindings {
	b := Bindings{
		Program:       uint32(gfx.GetInteger(dev, gfx.CurrentProgram)),
		ActiveTexture: gfx.Enum(gfx.GetInteger(dev, gfx.ActiveTextureUnit)),
		VertexArray:   uint32(gfx.GetInteger(dev, gfx.VertexArrayBind)),
		ArrayBuffer:   uint32(gfx.GetInteger(dev, gfx.ArrayBufferBind)),
		ScissorBox:    gfx.GetInteger4(dev, gfx.ScissorBox),
		BlendFunc: [4]gfx.Enum{
			gfx.Enum(gfx.GetInteger(dev, gfx.BlendSrcRGB)),
			gfx.Enum(gfx.GetInteger(dev, gfx.BlendDstRGB)),
			gfx.Enum(gfx.GetInteger(dev, gfx.BlendSrcAlpha)),
			gfx.Enum(gfx.GetInteger(dev, gfx.BlendDstAlpha)),
		},
	}
	if b.ActiveTexture == 0 {
		b.ActiveTexture = gfx.Texture0
	}
	// Painting happens on unit 0; remember that unit's binding.
	dev.ActiveTexture(gfx.Texture0)
	b.Texture2D = uint32(gfx.GetInteger(dev, gfx.TextureBinding2D))
	dev.ActiveTexture(b.ActiveTexture)
	return b
}

func restoreBindings(dev gfx.Device, b Bindings) {
	dev.UseProgram(b.Program)
	dev.ActiveTexture(gfx.Texture0)
	dev.BindTexture(gfx.Texture2D, b.Texture2D)
	dev.ActiveTexture(b.ActiveTexture)
	dev.BindVertexArray(b.VertexArray)
	dev.BindBuffer(gfx.ArrayBuffer, b.ArrayBuffer)
	dev.BlendFuncSeparate(b.BlendFunc[0], b.BlendFunc[1], b.BlendFunc[2], b.BlendFunc[3])
	dev.Scissor(b.ScissorBox[0], b.ScissorBox[1], b.ScissorBox[2], b.ScissorBox[3])
}

// Equal reports whether two snapshots describe the same state.
func Equal(a, b Snapshot) bool {
	if a.Bindings != b.Bindings || len(a.Capabilities) != len(b.Capabilities) {
		return false
	}
	for i := range a.Capabilities {
		if a.Capabilities[i] != b.Capabilities[i] {
			return false
		}
	}
	return true
}
