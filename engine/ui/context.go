package ui

import (
	"github.com/hubastard/grove-overlay/engine/colors"
	"github.com/hubastard/grove-overlay/engine/paint"
	"github.com/hubastard/grove-overlay/engine/text"
)

// FontTexture is the id of the font atlas texture.
var FontTexture = paint.TextureID{Namespace: paint.Managed, ID: 0}

// Context collects the shapes of one frame. Shapes are clipped to the
// innermost pushed clip rectangle.
type Context struct {
	Viewport    [4]float32
	DefaultFont *text.Font
	Textures    *TextureManager

	shapes []paint.ClippedShape
	clips  []paint.Rect
}

// NewContext registers font's atlas as FontTexture; the first frame's
// texture delta uploads it.
func NewContext(font *text.Font) *Context {
	c := &Context{DefaultFont: font, Textures: NewTextureManager()}
	c.Textures.Set(FontTexture, font.Delta())
	return c
}

// Begin starts a frame covering screen.
func (c *Context) Begin(screen paint.Rect) {
	c.Viewport = [4]float32{screen.Min.X, screen.Min.Y, screen.Width(), screen.Height()}
	c.shapes = c.shapes[:0]
	c.clips = append(c.clips[:0], screen)
}

// End returns the frame's shapes and the texture changes queued since the
// previous frame.
func (c *Context) End() paint.FullOutput {
	shapes := make([]paint.ClippedShape, len(c.shapes))
	copy(shapes, c.shapes)
	return paint.FullOutput{Shapes: shapes, Textures: c.Textures.Take()}
}

// Paint lays root out in the viewport and draws it.
func (c *Context) Paint(root UIElement) {
	root.Node().SetPos(c.Viewport[0], c.Viewport[1])
	root.Layout(c, Constraints{Max: [2]float32{c.Viewport[2], c.Viewport[3]}})
	root.Draw(c)
}

func (c *Context) PushClip(r paint.Rect) {
	c.clips = append(c.clips, c.clip().Intersect(r))
}

func (c *Context) PopClip() {
	if len(c.clips) > 1 {
		c.clips = c.clips[:len(c.clips)-1]
	}
}

func (c *Context) clip() paint.Rect {
	if len(c.clips) == 0 {
		return paint.RectFromXYWH(c.Viewport[0], c.Viewport[1], c.Viewport[2], c.Viewport[3])
	}
	return c.clips[len(c.clips)-1]
}

func (c *Context) add(s paint.Shape) {
	c.shapes = append(c.shapes, paint.ClippedShape{ClipRect: c.clip(), Shape: s})
}

func (c *Context) AddRect(r paint.Rect, col colors.Color) {
	c.add(paint.RectShape{Rect: r, Fill: col.SRGBA8()})
}

func (c *Context) AddText(font *text.Font, x, y float32, s string, col colors.Color) {
	c.add(paint.TextShape{Glyphs: text.Layout(font, x, y, s), Color: col.SRGBA8()})
}

func (c *Context) AddImage(r, uv paint.Rect, tex paint.TextureID, tint colors.Color) {
	c.add(paint.ImageShape{Rect: r, UV: uv, Texture: tex, Tint: tint.SRGBA8()})
}

// Tessellate turns shapes into meshes sampling the font atlas for solid
// fills and text.
func (c *Context) Tessellate(shapes []paint.ClippedShape) ([]paint.ClippedPrimitive, error) {
	t := paint.Tessellator{FontTexture: FontTexture, WhiteUV: c.DefaultFont.WhiteUV}
	return t.Tessellate(shapes)
}
