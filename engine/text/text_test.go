package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atlas(t *testing.T) *FontAtlas {
	t.Helper()
	fa, err := Default(14)
	require.NoError(t, err)
	return fa
}

func TestDefaultAtlas(t *testing.T) {
	fa := atlas(t)

	assert.Equal(t, 256, fa.AtlasW)
	assert.Equal(t, fa.AtlasW*fa.AtlasH, len(fa.Image.Coverage))
	assert.Greater(t, fa.Ascent, float32(0))
	assert.Less(t, fa.Descent, float32(0))

	g, ok := fa.Glyphs['A']
	require.True(t, ok)
	assert.Greater(t, g.W, 0)
	assert.Less(t, g.U0, g.U1)
	assert.Less(t, g.V0, g.V1)

	sp := fa.Glyphs[' ']
	assert.Zero(t, sp.W)
	assert.Greater(t, sp.Advance, float32(0))
}

func TestWhiteTexel(t *testing.T) {
	fa := atlas(t)
	x := int(fa.WhiteUV.X * float32(fa.AtlasW))
	y := int(fa.WhiteUV.Y * float32(fa.AtlasH))
	for _, p := range [][2]int{{x, y}, {x - 1, y - 1}, {x - 1, y}, {x, y - 1}} {
		assert.Equal(t, float32(1), fa.Image.Coverage[p[1]*fa.AtlasW+p[0]], "texel %v", p)
	}
}

func TestGlyphsHaveCoverage(t *testing.T) {
	fa := atlas(t)
	g := fa.Glyphs['M']
	x0, y0 := int(g.U0*float32(fa.AtlasW)), int(g.V0*float32(fa.AtlasH))

	var sum float32
	for y := y0; y < y0+g.H; y++ {
		for x := x0; x < x0+g.W; x++ {
			sum += fa.Image.Coverage[y*fa.AtlasW+x]
		}
	}
	assert.Greater(t, sum, float32(1))
}

func TestDelta(t *testing.T) {
	fa := atlas(t)
	d := fa.Delta()
	assert.True(t, d.IsWhole())
	px, err := d.Pixels()
	require.NoError(t, err)
	assert.Len(t, px, fa.AtlasW*fa.AtlasH*4)
}

func TestNewAtlasErrors(t *testing.T) {
	_, err := NewAtlas([]byte("not a font"), 14)
	assert.ErrorContains(t, err, "parse font")

	_, err = Default(0)
	assert.Error(t, err)

	_, err = LoadTTF("testdata/missing.ttf", 14)
	assert.ErrorContains(t, err, "read font")
}

func TestLayout(t *testing.T) {
	fa := atlas(t)

	quads := Layout(fa, 10, 20, "Hi there")
	assert.Len(t, quads, 7)
	for i := 1; i < len(quads); i++ {
		assert.Greater(t, quads[i].Rect.Min.X, quads[i-1].Rect.Min.X)
	}
	assert.GreaterOrEqual(t, quads[0].Rect.Min.Y, float32(20))
	assert.LessOrEqual(t, quads[0].Rect.Max.Y, 20+LineHeight(fa))
}

func TestLayoutNewlineAndTab(t *testing.T) {
	fa := atlas(t)

	quads := Layout(fa, 0, 0, "a\na")
	require.Len(t, quads, 2)
	assert.Equal(t, quads[0].Rect.Min.X, quads[1].Rect.Min.X)
	assert.InDelta(t, LineHeight(fa), quads[1].Rect.Min.Y-quads[0].Rect.Min.Y, 0.001)

	tabbed := Layout(fa, 0, 0, "\ta")
	require.Len(t, tabbed, 1)
	assert.InDelta(t, 4*fa.Glyphs[' '].Advance, tabbed[0].Rect.Min.X-quads[0].Rect.Min.X, 0.001)
}

func TestMeasureText(t *testing.T) {
	fa := atlas(t)

	w, h := MeasureText(fa, "")
	assert.Zero(t, w)
	assert.Equal(t, LineHeight(fa), h)

	w1, _ := MeasureText(fa, "abc")
	w2, h2 := MeasureText(fa, "abc\nab")
	assert.Equal(t, w1, w2)
	assert.Equal(t, 2*LineHeight(fa), h2)

	// Unknown runes advance like a space.
	wu, _ := MeasureText(fa, "世")
	assert.Equal(t, fa.Glyphs[' '].Advance, wu)
}
