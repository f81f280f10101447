package paint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fontTex = TextureID{Namespace: Managed, ID: 0}

func TestTessellateMergesSameClipAndTexture(t *testing.T) {
	clip := RectFromXYWH(0, 0, 100, 100)
	shapes := []ClippedShape{
		{ClipRect: clip, Shape: RectShape{Rect: RectFromXYWH(0, 0, 10, 10), Fill: [4]uint8{255, 0, 0, 255}}},
		{ClipRect: clip, Shape: TextShape{
			Glyphs: []GlyphQuad{{Rect: RectFromXYWH(10, 0, 5, 8), UV: Rect{Max: Pos2{0.5, 0.5}}}},
			Color:  [4]uint8{255, 255, 255, 255},
		}},
	}

	prims, err := Tessellator{FontTexture: fontTex, WhiteUV: Pos2{0.001, 0.001}}.Tessellate(shapes)
	require.NoError(t, err)
	require.Len(t, prims, 1)

	m, ok := prims[0].Primitive.(*Mesh)
	require.True(t, ok)
	assert.Equal(t, fontTex, m.Texture)
	assert.Len(t, m.Vertices, 8)
	assert.Len(t, m.Indices, 12)
	assert.NoError(t, m.Validate())
}

func TestTessellateSplitsOnClipAndTexture(t *testing.T) {
	user := TextureID{Namespace: Ephemeral, ID: 3}
	shapes := []ClippedShape{
		{ClipRect: RectFromXYWH(0, 0, 50, 50), Shape: RectShape{Rect: RectFromXYWH(0, 0, 10, 10), Fill: [4]uint8{1, 1, 1, 255}}},
		{ClipRect: RectFromXYWH(0, 0, 20, 20), Shape: RectShape{Rect: RectFromXYWH(0, 0, 10, 10), Fill: [4]uint8{1, 1, 1, 255}}},
		{ClipRect: RectFromXYWH(0, 0, 20, 20), Shape: ImageShape{Rect: RectFromXYWH(0, 0, 4, 4), UV: Rect{Max: Pos2{1, 1}}, Texture: user, Tint: [4]uint8{255, 255, 255, 255}}},
	}

	prims, err := Tessellator{FontTexture: fontTex}.Tessellate(shapes)
	require.NoError(t, err)
	require.Len(t, prims, 3)
	assert.Equal(t, user, prims[2].Primitive.(*Mesh).Texture)
}

func TestTessellateSkipsInvisible(t *testing.T) {
	shapes := []ClippedShape{
		{Shape: RectShape{Rect: RectFromXYWH(0, 0, 0, 10), Fill: [4]uint8{1, 1, 1, 255}}},
		{Shape: RectShape{Rect: RectFromXYWH(0, 0, 10, 10), Fill: [4]uint8{1, 1, 1, 0}}},
		{Shape: TextShape{Color: [4]uint8{1, 1, 1, 255}}},
	}
	prims, err := Tessellator{}.Tessellate(shapes)
	require.NoError(t, err)
	assert.Empty(t, prims)
}

func TestTessellateCallbackBecomesPrimitive(t *testing.T) {
	shapes := []ClippedShape{
		{Shape: RectShape{Rect: RectFromXYWH(0, 0, 10, 10), Fill: [4]uint8{1, 1, 1, 255}}},
		{Shape: CallbackShape{Name: "custom"}},
		{Shape: RectShape{Rect: RectFromXYWH(0, 0, 10, 10), Fill: [4]uint8{1, 1, 1, 255}}},
	}
	prims, err := Tessellator{}.Tessellate(shapes)
	require.NoError(t, err)
	require.Len(t, prims, 3)
	assert.Equal(t, Callback{Name: "custom"}, prims[1].Primitive)
	assert.NotSame(t, prims[0].Primitive, prims[2].Primitive)
}

func TestTessellateRejectsNonFinite(t *testing.T) {
	nan := float32(math.NaN())
	shapes := []ClippedShape{
		{Shape: RectShape{Rect: Rect{Max: Pos2{nan, 1}}, Fill: [4]uint8{1, 1, 1, 255}}},
	}
	_, err := Tessellator{}.Tessellate(shapes)
	assert.Error(t, err)

	_, err = Tessellator{}.Tessellate([]ClippedShape{{}})
	assert.Error(t, err)
}

func TestFontImageRGBA(t *testing.T) {
	img := FontImage{Width: 3, Height: 1, Coverage: []float32{0, 1, 0.5}}
	px := img.RGBA()
	require.Len(t, px, 12)
	assert.Equal(t, []byte{0, 0, 0, 0}, px[0:4])
	assert.Equal(t, []byte{255, 255, 255, 255}, px[4:8])
	assert.Equal(t, byte(128), px[11])
	assert.Equal(t, GammaByteFromLinear(0.5), px[8])
}

func TestImageDeltaPixelsChecksSize(t *testing.T) {
	d := Full(ColorImage{Width: 2, Height: 2, Pixels: make([]byte, 15)}, Linear)
	_, err := d.Pixels()
	assert.Error(t, err)

	// Partial deltas carry raw bytes; their size is checked against the range.
	p := Partial(0, 3, ColorImage{Width: 1, Height: 1, Pixels: []byte{1, 2, 3}}, Linear)
	px, err := p.Pixels()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, px)
}

func TestGammaRoundTrip(t *testing.T) {
	for _, b := range []byte{0, 1, 10, 64, 128, 200, 255} {
		assert.Equal(t, b, GammaByteFromLinear(LinearFromGammaByte(b)), "byte %d", b)
	}
}

func TestRectIntersect(t *testing.T) {
	a := RectFromXYWH(0, 0, 10, 10)
	b := RectFromXYWH(5, 5, 10, 10)
	assert.Equal(t, RectFromXYWH(5, 5, 5, 5), a.Intersect(b))

	c := RectFromXYWH(20, 20, 5, 5)
	got := a.Intersect(c)
	assert.Zero(t, got.Width())
	assert.Zero(t, got.Height())
}

func TestMeshValidate(t *testing.T) {
	m := &Mesh{Vertices: make([]Vertex, 3), Indices: []uint32{0, 1, 3}}
	assert.Error(t, m.Validate())
	m.Indices = []uint32{0, 1}
	assert.Error(t, m.Validate())
}
