package paint

import (
	"fmt"
	"math"
)

// Image is pixel data the UI wants on the GPU. RGBA returns tightly packed
// premultiplied sRGBA8 rows, top-left origin.
type Image interface {
	Size() [2]int
	RGBA() []byte
}

type ColorImage struct {
	Width, Height int
	Pixels        []byte
}

func (c ColorImage) Size() [2]int { return [2]int{c.Width, c.Height} }
func (c ColorImage) RGBA() []byte { return c.Pixels }

// FontImage stores glyph coverage in [0,1], one value per pixel.
type FontImage struct {
	Width, Height int
	Coverage      []float32
	// Gamma applied to coverage before conversion; 1 keeps it linear.
	Gamma float32
}

func (f FontImage) Size() [2]int { return [2]int{f.Width, f.Height} }

// RGBA converts coverage to premultiplied white in sRGB space.
func (f FontImage) RGBA() []byte {
	gamma := f.Gamma
	if gamma <= 0 {
		gamma = 1
	}
	out := make([]byte, 0, len(f.Coverage)*4)
	for _, c := range f.Coverage {
		a := float32(math.Pow(float64(clamp01(c)), float64(gamma)))
		v := GammaByteFromLinear(a)
		out = append(out, v, v, v, linearByte(a))
	}
	return out
}

// ImageDelta replaces a whole texture, or with Pos set, the half-open byte
// range [Pos[0], Pos[1]) of its flat pixel buffer.
type ImageDelta struct {
	Image  Image
	Pos    *[2]int
	Filter Filter
}

func Full(img Image, filter Filter) ImageDelta {
	return ImageDelta{Image: img, Filter: filter}
}

func Partial(from, to int, img Image, filter Filter) ImageDelta {
	return ImageDelta{Image: img, Pos: &[2]int{from, to}, Filter: filter}
}

func (d ImageDelta) IsWhole() bool { return d.Pos == nil }

// Pixels returns the RGBA bytes and checks they match the declared size for
// whole-texture deltas.
func (d ImageDelta) Pixels() ([]byte, error) {
	if d.Image == nil {
		return nil, fmt.Errorf("image delta: no image")
	}
	px := d.Image.RGBA()
	if d.IsWhole() {
		sz := d.Image.Size()
		if want := sz[0] * sz[1] * 4; len(px) != want {
			return nil, fmt.Errorf("image delta: %d bytes for %dx%d image, want %d", len(px), sz[0], sz[1], want)
		}
	}
	return px, nil
}

type TextureSet struct {
	ID    TextureID
	Delta ImageDelta
}

// TexturesDelta lists texture changes to apply before painting (Set) and
// after painting (Free).
type TexturesDelta struct {
	Set  []TextureSet
	Free []TextureID
}

func (t TexturesDelta) IsEmpty() bool { return len(t.Set) == 0 && len(t.Free) == 0 }

// Append merges o after t, keeping order.
func (t *TexturesDelta) Append(o TexturesDelta) {
	t.Set = append(t.Set, o.Set...)
	t.Free = append(t.Free, o.Free...)
}

// GammaByteFromLinear encodes a linear [0,1] value to an 8-bit sRGB value.
func GammaByteFromLinear(l float32) byte {
	l = clamp01(l)
	var s float64
	if l <= 0.0031308 {
		s = 12.92 * float64(l)
	} else {
		s = 1.055*math.Pow(float64(l), 1.0/2.4) - 0.055
	}
	return byte(math.Round(s * 255))
}

// LinearFromGammaByte decodes an 8-bit sRGB value to linear [0,1].
func LinearFromGammaByte(b byte) float32 {
	s := float64(b) / 255
	if s <= 0.04045 {
		return float32(s / 12.92)
	}
	return float32(math.Pow((s+0.055)/1.055, 2.4))
}

func linearByte(v float32) byte { return byte(math.Round(float64(clamp01(v)) * 255)) }

func clamp01(v float32) float32 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
