// Package paint holds the platform-independent data exchanged between the UI
// library and the GL backend: shapes, meshes, textures and frame input.
package paint

import "fmt"

type Pos2 struct{ X, Y float32 }

type Rect struct{ Min, Max Pos2 }

func RectFromXYWH(x, y, w, h float32) Rect {
	return Rect{Min: Pos2{x, y}, Max: Pos2{x + w, y + h}}
}

func (r Rect) Width() float32  { return r.Max.X - r.Min.X }
func (r Rect) Height() float32 { return r.Max.Y - r.Min.Y }

// Intersect returns the overlap of r and o. The result may be empty.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Min: Pos2{maxf(r.Min.X, o.Min.X), maxf(r.Min.Y, o.Min.Y)},
		Max: Pos2{minf(r.Max.X, o.Max.X), minf(r.Max.Y, o.Max.Y)},
	}
	if out.Max.X < out.Min.X {
		out.Max.X = out.Min.X
	}
	if out.Max.Y < out.Min.Y {
		out.Max.Y = out.Min.Y
	}
	return out
}

// Namespace separates textures owned by the UI library from ones the
// application registers for a limited time.
type Namespace uint8

const (
	Ephemeral Namespace = iota
	Managed
)

func (n Namespace) String() string {
	switch n {
	case Ephemeral:
		return "ephemeral"
	case Managed:
		return "managed"
	default:
		return fmt.Sprintf("namespace(%d)", uint8(n))
	}
}

type TextureID struct {
	Namespace Namespace
	ID        uint64
}

func (t TextureID) String() string { return fmt.Sprintf("%s#%d", t.Namespace, t.ID) }

type Filter uint8

const (
	Linear Filter = iota
	Nearest
)

// Vertex is one mesh vertex. Pos is in points, UV is normalized and Color is
// premultiplied sRGBA.
type Vertex struct {
	Pos   Pos2
	UV    Pos2
	Color [4]uint8
}

type Mesh struct {
	Indices  []uint32
	Vertices []Vertex
	Texture  TextureID
}

// Validate checks that every index refers to a vertex and indices form whole triangles.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh: %d indices is not a multiple of 3", len(m.Indices))
	}
	n := uint32(len(m.Vertices))
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("mesh: index %d at %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

// AddRectWithUV appends two triangles covering rect.
func (m *Mesh) AddRectWithUV(rect, uv Rect, color [4]uint8) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		Vertex{Pos: rect.Min, UV: uv.Min, Color: color},
		Vertex{Pos: Pos2{rect.Max.X, rect.Min.Y}, UV: Pos2{uv.Max.X, uv.Min.Y}, Color: color},
		Vertex{Pos: Pos2{rect.Min.X, rect.Max.Y}, UV: Pos2{uv.Min.X, uv.Max.Y}, Color: color},
		Vertex{Pos: rect.Max, UV: uv.Max, Color: color},
	)
	m.Indices = append(m.Indices,
		base+0, base+2, base+1,
		base+1, base+2, base+3,
	)
}

// Primitive is either a *Mesh or a Callback.
type Primitive interface{ isPrimitive() }

func (*Mesh) isPrimitive() {}

// Callback asks the backend to run custom drawing code. The GL painter does
// not support it.
type Callback struct{ Name string }

func (Callback) isPrimitive() {}

type ClippedPrimitive struct {
	ClipRect  Rect
	Primitive Primitive
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
