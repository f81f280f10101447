// Package painter draws tessellated overlay meshes into whatever framebuffer
// the host has bound.
package painter

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/hubastard/grove-overlay/engine/gfx"
	"github.com/hubastard/grove-overlay/engine/gfx/glstate"
	"github.com/hubastard/grove-overlay/engine/gfx/texcache"
	"github.com/hubastard/grove-overlay/engine/paint"
	"github.com/hubastard/grove-overlay/engine/profiler"
)

var (
	ErrUnsupportedPrimitive = errors.New("painter: callback primitives are not supported")
	ErrReleased             = errors.New("painter: used after release")
)

const vertexSize = int32(unsafe.Sizeof(paint.Vertex{}))

type Painter struct {
	dev     gfx.Device
	cache   *texcache.Cache
	version ShaderVersion

	program gfx.Program
	vao     uint32
	vbo     uint32
	ibo     uint32

	uScreenSize int32
	uSampler    int32

	uploads  int
	draws    int
	released bool
}

// New compiles the overlay program for dev and creates the vertex array and
// buffers. Textures are read from cache.
func New(dev gfx.Device, cache *texcache.Cache) (*Painter, error) {
	v := DetectShaderVersion(dev)
	vs, fs, err := ShaderSources(v)
	if err != nil {
		return nil, err
	}
	prog, err := dev.CreateProgram(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("painter %s: %w", v, err)
	}

	p := &Painter{
		dev:         dev,
		cache:       cache,
		version:     v,
		program:     prog,
		uScreenSize: dev.GetUniformLocation(prog.ID, "u_screen_size"),
		uSampler:    dev.GetUniformLocation(prog.ID, "u_sampler"),
	}

	attribs := []struct {
		name   string
		size   int32
		xtype  gfx.Enum
		offset int
	}{
		{"a_pos", 2, gfx.Float, int(unsafe.Offsetof(paint.Vertex{}.Pos))},
		{"a_tc", 2, gfx.Float, int(unsafe.Offsetof(paint.Vertex{}.UV))},
		// Raw 0-255 values; the vertex shader decodes sRGB itself.
		{"a_srgba", 4, gfx.UnsignedByte, int(unsafe.Offsetof(paint.Vertex{}.Color))},
	}
	locs := make([]int32, len(attribs))
	for i, a := range attribs {
		locs[i] = dev.GetAttribLocation(prog.ID, a.name)
		if locs[i] < 0 {
			p.deleteProgram()
			return nil, fmt.Errorf("painter: attribute %s not found", a.name)
		}
	}

	// The vertex array keeps the layout and the element buffer binding.
	// Callers run this inside a state guard, so host bindings come back.
	p.vao = dev.GenVertexArray()
	p.vbo = dev.GenBuffer()
	p.ibo = dev.GenBuffer()
	dev.BindVertexArray(p.vao)
	dev.BindBuffer(gfx.ArrayBuffer, p.vbo)
	dev.BindBuffer(gfx.ElementArrayBuffer, p.ibo)
	for i, a := range attribs {
		dev.VertexAttribPointer(uint32(locs[i]), a.size, a.xtype, false, vertexSize, a.offset)
		dev.EnableVertexAttribArray(uint32(locs[i]))
	}
	dev.BindVertexArray(0)

	return p, nil
}

func (p *Painter) Version() ShaderVersion { return p.version }

// Uploads is the number of texture uploads done so far.
func (p *Painter) Uploads() int { return p.uploads }

// Draws is the number of draw calls issued so far.
func (p *Painter) Draws() int { return p.draws }

type batch struct {
	mesh    *paint.Mesh
	texture uint32
	scissor [4]int32
}

// Draw paints prims in order. viewport is x, y, width, height in pixels.
// The list is checked up front: on error nothing is drawn.
func (p *Painter) Draw(prims []paint.ClippedPrimitive, pixelsPerPoint float32, viewport [4]int32) error {
	if p.released {
		return ErrReleased
	}
	defer profiler.Start("painter.Draw")()

	for i, cp := range prims {
		switch prim := cp.Primitive.(type) {
		case *paint.Mesh:
			if err := prim.Validate(); err != nil {
				return fmt.Errorf("primitive %d: %w", i, err)
			}
		case paint.Callback:
			return fmt.Errorf("primitive %d (%s): %w", i, prim.Name, ErrUnsupportedPrimitive)
		default:
			return fmt.Errorf("primitive %d (%T): %w", i, prim, ErrUnsupportedPrimitive)
		}
	}

	glstate.ApplyOverlayRequirements(p.dev)
	p.dev.ActiveTexture(gfx.Texture0)
	p.uploads += p.cache.Flush()

	batches := make([]batch, 0, len(prims))
	for _, cp := range prims {
		mesh := cp.Primitive.(*paint.Mesh)
		if len(mesh.Indices) == 0 {
			continue
		}
		tex, err := p.cache.Resolve(mesh.Texture)
		if err != nil {
			return err
		}
		sc := ScissorBox(cp.ClipRect, pixelsPerPoint, viewport[2], viewport[3])
		if sc[2] <= 0 || sc[3] <= 0 {
			continue
		}
		sc[0] += viewport[0]
		sc[1] += viewport[1]
		batches = append(batches, batch{mesh: mesh, texture: tex, scissor: sc})
	}
	if len(batches) == 0 {
		return nil
	}

	p.dev.UseProgram(p.program.ID)
	p.dev.Uniform2f(p.uScreenSize, float32(viewport[2])/pixelsPerPoint, float32(viewport[3])/pixelsPerPoint)
	p.dev.Uniform1i(p.uSampler, 0)
	p.dev.BindVertexArray(p.vao)
	p.dev.BindBuffer(gfx.ArrayBuffer, p.vbo)
	p.dev.BindBuffer(gfx.ElementArrayBuffer, p.ibo)

	for _, b := range batches {
		p.dev.BindTexture(gfx.Texture2D, b.texture)
		p.dev.Scissor(b.scissor[0], b.scissor[1], b.scissor[2], b.scissor[3])
		p.dev.BufferData(gfx.ArrayBuffer, gfx.Bytes(b.mesh.Vertices), gfx.StreamDraw)
		p.dev.BufferData(gfx.ElementArrayBuffer, gfx.Bytes(b.mesh.Indices), gfx.StreamDraw)
		p.dev.DrawElements(gfx.Triangles, int32(len(b.mesh.Indices)), gfx.UnsignedInt, 0)
		p.draws++
	}
	p.dev.BindVertexArray(0)
	return nil
}

// ScissorBox converts a clip rectangle in points into a GL scissor box
// (x, y, width, height) for a framebuffer of width x height pixels. GL
// scissor boxes start at the bottom-left corner.
func ScissorBox(clip paint.Rect, pixelsPerPoint float32, width, height int32) [4]int32 {
	w, h := float64(width), float64(height)
	ppp := float64(pixelsPerPoint)

	minX := clamp(ppp*float64(clip.Min.X), 0, w)
	minY := clamp(ppp*float64(clip.Min.Y), 0, h)
	maxX := clamp(ppp*float64(clip.Max.X), minX, w)
	maxY := clamp(ppp*float64(clip.Max.Y), minY, h)

	x0, y0 := int32(math.Round(minX)), int32(math.Round(minY))
	x1, y1 := int32(math.Round(maxX)), int32(math.Round(maxY))
	return [4]int32{x0, height - y1, x1 - x0, y1 - y0}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Release deletes the program, shaders, buffers and vertex array. Further
// calls do nothing.
func (p *Painter) Release() {
	if p.released {
		return
	}
	p.released = true
	p.deleteProgram()
	p.dev.DeleteBuffer(p.vbo)
	p.dev.DeleteBuffer(p.ibo)
	p.dev.DeleteVertexArray(p.vao)
}

func (p *Painter) deleteProgram() {
	p.dev.DeleteProgram(p.program.ID)
	p.dev.DeleteShader(p.program.Vertex)
	p.dev.DeleteShader(p.program.Fragment)
}
