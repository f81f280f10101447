package paint

import (
	"fmt"
	"math"
)

// Tessellator turns shapes into meshes. Consecutive shapes sharing a clip
// rectangle and texture end up in the same mesh.
type Tessellator struct {
	FontTexture TextureID
	// WhiteUV points at a fully opaque white texel of the font texture.
	WhiteUV Pos2
}

func (t Tessellator) Tessellate(shapes []ClippedShape) ([]ClippedPrimitive, error) {
	var out []ClippedPrimitive
	var cur *Mesh
	var curClip Rect

	meshFor := func(clip Rect, tex TextureID) *Mesh {
		if cur != nil && curClip == clip && cur.Texture == tex {
			return cur
		}
		cur = &Mesh{Texture: tex}
		curClip = clip
		out = append(out, ClippedPrimitive{ClipRect: clip, Primitive: cur})
		return cur
	}

	for i, cs := range shapes {
		if !finiteRect(cs.ClipRect) {
			return nil, fmt.Errorf("tessellate: shape %d: non-finite clip rect", i)
		}
		switch s := cs.Shape.(type) {
		case RectShape:
			if !finiteRect(s.Rect) {
				return nil, fmt.Errorf("tessellate: shape %d: non-finite rect", i)
			}
			if s.Rect.Width() <= 0 || s.Rect.Height() <= 0 || s.Fill[3] == 0 {
				continue
			}
			uv := Rect{Min: t.WhiteUV, Max: t.WhiteUV}
			meshFor(cs.ClipRect, t.FontTexture).AddRectWithUV(s.Rect, uv, s.Fill)
		case TextShape:
			if len(s.Glyphs) == 0 || s.Color[3] == 0 {
				continue
			}
			m := meshFor(cs.ClipRect, t.FontTexture)
			for _, g := range s.Glyphs {
				if !finiteRect(g.Rect) {
					return nil, fmt.Errorf("tessellate: shape %d: non-finite glyph rect", i)
				}
				m.AddRectWithUV(g.Rect, g.UV, s.Color)
			}
		case ImageShape:
			if !finiteRect(s.Rect) {
				return nil, fmt.Errorf("tessellate: shape %d: non-finite image rect", i)
			}
			meshFor(cs.ClipRect, s.Texture).AddRectWithUV(s.Rect, s.UV, s.Tint)
		case CallbackShape:
			cur = nil
			out = append(out, ClippedPrimitive{ClipRect: cs.ClipRect, Primitive: Callback{Name: s.Name}})
		case nil:
			return nil, fmt.Errorf("tessellate: shape %d is nil", i)
		default:
			return nil, fmt.Errorf("tessellate: shape %d: unknown shape %T", i, s)
		}
	}
	return out, nil
}

func finiteRect(r Rect) bool {
	for _, v := range [4]float32{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y} {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return true
}
