package colors

import "github.com/hubastard/grove-overlay/engine/paint"

// Color is unmultiplied sRGB with alpha, every channel in [0,1].
type Color [4]float32

var (
	White    = Color{1, 1, 1, 1}
	Red      = Color{1, 0, 0, 1}
	Green    = Color{0, 1, 0, 1}
	Blue     = Color{0, 0, 1, 1}
	Black    = Color{0, 0, 0, 1}
	Magenta  = Color{1, 0, 1, 1}
	Cyan     = Color{0, 1, 1, 1}
	Yellow   = Color{1, 1, 0, 1}
	Gray     = Color{0.5, 0.5, 0.5, 1}
	DarkGray = Color{0.08, 0.10, 0.12, 1}
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Scale multiplies the alpha channel by f.
func (c Color) Scale(f float32) Color {
	c[3] *= f
	return c
}

// SRGBA8 returns c as premultiplied sRGBA bytes, the vertex color format.
// Premultiplication happens in linear space.
func (c Color) SRGBA8() [4]uint8 {
	a := clamp01(c[3])
	var out [4]uint8
	for i := 0; i < 3; i++ {
		lin := paint.LinearFromGammaByte(unit(c[i]))
		out[i] = paint.GammaByteFromLinear(lin * a)
	}
	out[3] = unit(a)
	return out
}

func unit(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func clamp01(v float32) float32 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
