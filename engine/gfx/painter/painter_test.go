package painter

import (
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/hubastard/grove-overlay/engine/gfx"
	"github.com/hubastard/grove-overlay/engine/gfx/gfxtest"
	"github.com/hubastard/grove-overlay/engine/gfx/texcache"
	"github.com/hubastard/grove-overlay/engine/paint"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tex      = paint.TextureID{Namespace: paint.Managed, ID: 7}
	viewport = [4]int32{0, 0, 200, 200}
	fullClip = paint.Rect{Max: paint.Pos2{X: 200, Y: 200}}
)

func setup(t *testing.T, dev *gfxtest.Device) (*Painter, *texcache.Cache) {
	t.Helper()
	cache := texcache.New(dev, DetectShaderVersion(dev).InternalFormat())
	require.NoError(t, cache.Set([]paint.TextureSet{{
		ID:    tex,
		Delta: paint.Full(paint.ColorImage{Width: 1, Height: 1, Pixels: []byte{255, 255, 255, 255}}, paint.Linear),
	}}))
	p, err := New(dev, cache)
	require.NoError(t, err)
	return p, cache
}

func quad(clip paint.Rect) paint.ClippedPrimitive {
	m := &paint.Mesh{Texture: tex}
	m.AddRectWithUV(paint.RectFromXYWH(10, 10, 20, 20), paint.Rect{Max: paint.Pos2{X: 1, Y: 1}}, [4]uint8{255, 0, 0, 255})
	return paint.ClippedPrimitive{ClipRect: clip, Primitive: m}
}

func TestScissorBox(t *testing.T) {
	tests := []struct {
		name string
		clip paint.Rect
		ppp  float32
		w, h int32
		want [4]int32
	}{
		{"scaled", paint.Rect{Min: paint.Pos2{X: 10, Y: 10}, Max: paint.Pos2{X: 50, Y: 50}}, 2, 200, 200, [4]int32{20, 100, 80, 80}},
		{"unit", paint.RectFromXYWH(0, 0, 100, 50), 1, 200, 100, [4]int32{0, 50, 100, 50}},
		{"clamped", paint.Rect{Min: paint.Pos2{X: -50, Y: -50}, Max: paint.Pos2{X: 500, Y: 500}}, 1, 200, 100, [4]int32{0, 0, 200, 100}},
		{"outside", paint.RectFromXYWH(300, 300, 10, 10), 1, 200, 200, [4]int32{200, 0, 0, 0}},
		{"rounded", paint.Rect{Min: paint.Pos2{X: 1.4, Y: 1.6}, Max: paint.Pos2{X: 10.5, Y: 10.4}}, 1, 20, 20, [4]int32{1, 10, 10, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScissorBox(tt.clip, tt.ppp, tt.w, tt.h))
		})
	}
}

func TestParseShaderVersion(t *testing.T) {
	tests := []struct {
		profile gfx.Profile
		s       string
		want    ShaderVersion
	}{
		{gfx.ProfileCore, "1.20", GLSL120},
		{gfx.ProfileCore, "1.30 NVIDIA", GLSL120},
		{gfx.ProfileCore, "1.40", GLSL140},
		{gfx.ProfileCore, "4.60 NVIDIA", GLSL140},
		{gfx.ProfileCore, "", GLSL120},
		{gfx.ProfileES, "OpenGL ES GLSL ES 1.00", ES100},
		{gfx.ProfileES, "OpenGL ES GLSL ES 3.20", ES300},
		{gfx.ProfileCore, "OpenGL ES GLSL ES 3.00", ES300},
		{gfx.ProfileES, "garbage", ES100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseShaderVersion(tt.profile, tt.s), tt.s)
	}
}

func TestShaderSourcesGolden(t *testing.T) {
	g := goldie.New(t)
	for _, v := range []ShaderVersion{GLSL120, GLSL140, ES100, ES300} {
		vs, fs, err := ShaderSources(v)
		require.NoError(t, err)
		g.Assert(t, v.String()+".vert", []byte(vs))
		g.Assert(t, v.String()+".frag", []byte(fs))
	}
}

func TestInternalFormat(t *testing.T) {
	assert.Equal(t, gfx.RGBA, ES100.InternalFormat())
	assert.Equal(t, gfx.SRGB8Alpha8, ES300.InternalFormat())
	assert.Equal(t, gfx.SRGB8Alpha8, GLSL140.InternalFormat())
}

func TestDrawOneCallPerMesh(t *testing.T) {
	dev := gfxtest.New()
	dev.SetViewport(viewport[0], viewport[1], viewport[2], viewport[3])
	p, _ := setup(t, dev)

	clip := paint.Rect{Min: paint.Pos2{X: 10, Y: 10}, Max: paint.Pos2{X: 50, Y: 50}}
	require.NoError(t, p.Draw([]paint.ClippedPrimitive{quad(clip), quad(fullClip)}, 2, viewport))

	require.Len(t, dev.Draws, 2)
	d := dev.Draws[0]
	assert.Equal(t, [4]int32{20, 100, 80, 80}, d.Scissor)
	assert.Equal(t, int32(6), d.Count)
	assert.Equal(t, p.program.ID, d.Program)
	assert.Len(t, d.Verts, 4*20)
	assert.Len(t, d.Indices, 6*4)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(d.Indices[4:]))
	assert.Equal(t, []byte{255, 0, 0, 255}, d.Verts[16:20])

	assert.Contains(t, dev.Calls, "Uniform2f(0, 100, 100)")
	assert.Equal(t, 1, p.Uploads())
	assert.Equal(t, 2, p.Draws())
	assert.True(t, dev.IsEnabled(gfx.ScissorTest))
	assert.False(t, dev.IsEnabled(gfx.DepthTest))
}

func TestDrawRejectsCallback(t *testing.T) {
	dev := gfxtest.New()
	p, _ := setup(t, dev)

	err := p.Draw([]paint.ClippedPrimitive{
		quad(fullClip),
		{ClipRect: fullClip, Primitive: paint.Callback{Name: "custom"}},
	}, 1, viewport)

	assert.ErrorIs(t, err, ErrUnsupportedPrimitive)
	assert.Empty(t, dev.Draws)
}

func TestDrawUnknownTexture(t *testing.T) {
	dev := gfxtest.New()
	p, _ := setup(t, dev)

	prim := quad(fullClip)
	prim.Primitive.(*paint.Mesh).Texture = paint.TextureID{Namespace: paint.Ephemeral, ID: 99}
	err := p.Draw([]paint.ClippedPrimitive{quad(fullClip), prim}, 1, viewport)

	assert.ErrorIs(t, err, texcache.ErrTextureNotFound)
	assert.Empty(t, dev.Draws)
}

func TestDrawSkipsEmptyClip(t *testing.T) {
	dev := gfxtest.New()
	p, _ := setup(t, dev)

	require.NoError(t, p.Draw([]paint.ClippedPrimitive{quad(paint.RectFromXYWH(500, 500, 10, 10))}, 1, viewport))
	assert.Empty(t, dev.Draws)
}

func TestReleaseOnce(t *testing.T) {
	dev := gfxtest.New()
	p, _ := setup(t, dev)

	p.Release()
	p.Release()

	assert.Zero(t, dev.LiveCount("program"))
	assert.Zero(t, dev.LiveCount("shader"))
	assert.Zero(t, dev.LiveCount("buffer"))
	assert.Zero(t, dev.LiveCount("vertexarray"))

	n := 0
	for _, c := range dev.Calls {
		if c == fmt.Sprintf("DeleteVertexArray(%d)", p.vao) {
			n++
		}
	}
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, p.Draw(nil, 1, viewport), ErrReleased)
}

func TestNewCompileError(t *testing.T) {
	dev := gfxtest.New()
	dev.CompileError = errors.New("0:1: syntax error")
	_, err := New(dev, texcache.New(dev, gfx.RGBA))
	assert.ErrorContains(t, err, "syntax error")
}

func TestESDevice(t *testing.T) {
	dev := gfxtest.NewES()
	p, _ := setup(t, dev)
	assert.Equal(t, ES300, p.Version())
	require.NoError(t, p.Draw([]paint.ClippedPrimitive{quad(fullClip)}, 1, viewport))
	assert.False(t, dev.IsEnabled(gfx.FramebufferSRGB))
	assert.Equal(t, gfx.SRGB8Alpha8, dev.Uploads[0].InternalFormat)
}
