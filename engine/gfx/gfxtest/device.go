// Package gfxtest provides an in-memory gfx.Device that tracks GL state and
// records the calls the overlay makes, so renderer code can be tested
// without a GPU.
package gfxtest

import (
	"fmt"

	"github.com/hubastard/grove-overlay/engine/gfx"
)

type Upload struct {
	Texture        uint32
	InternalFormat gfx.Enum
	Width, Height  int32
	Pixels         []byte
}

type Draw struct {
	Program uint32
	Texture uint32
	Scissor [4]int32
	Count   int32
	Indices []byte
	Verts   []byte
}

// Device is a fake gfx.Device. Zero values are not usable; call New.
type Device struct {
	Prof    gfx.Profile
	Strings map[gfx.Enum]string

	Enabled map[gfx.Enum]bool
	Ints    map[gfx.Enum][]int32

	// Per-unit 2D texture bindings.
	units map[gfx.Enum]uint32

	buffers map[gfx.Enum]uint32
	data    map[uint32][]byte

	nextName uint32
	Live     map[uint32]string // name -> kind for every object not yet deleted

	Uploads      []Upload
	Draws        []Draw
	Calls        []string
	CompileError error
}

var _ gfx.Device = (*Device)(nil)

func New() *Device {
	d := &Device{
		Strings: map[gfx.Enum]string{
			gfx.Vendor:                 "grove",
			gfx.Renderer:               "fake",
			gfx.Version:                "3.3.0 fake",
			gfx.ShadingLanguageVersion: "3.30",
		},
		Enabled: map[gfx.Enum]bool{},
		Ints: map[gfx.Enum][]int32{
			gfx.Viewport:          {0, 0, 800, 600},
			gfx.ScissorBox:        {0, 0, 800, 600},
			gfx.MaxTextureSize:    {8192},
			gfx.CurrentProgram:    {0},
			gfx.ActiveTextureUnit: {int32(gfx.Texture0)},
			gfx.VertexArrayBind:   {0},
			gfx.ArrayBufferBind:   {0},
			gfx.BlendSrcRGB:       {int32(gfx.One)},
			gfx.BlendDstRGB:       {0},
			gfx.BlendSrcAlpha:     {int32(gfx.One)},
			gfx.BlendDstAlpha:     {0},
		},
		units:    map[gfx.Enum]uint32{},
		buffers:  map[gfx.Enum]uint32{},
		data:     map[uint32][]byte{},
		Live:     map[uint32]string{},
		nextName: 100,
	}
	return d
}

// NewES returns a fake GL ES 3.0 device.
func NewES() *Device {
	d := New()
	d.Prof = gfx.ProfileES
	d.Strings[gfx.Version] = "OpenGL ES 3.0 fake"
	d.Strings[gfx.ShadingLanguageVersion] = "OpenGL ES GLSL ES 3.00"
	return d
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) gen(kind string) uint32 {
	d.nextName++
	d.Live[d.nextName] = kind
	return d.nextName
}

// LiveCount counts undeleted objects of kind.
func (d *Device) LiveCount(kind string) int {
	n := 0
	for _, k := range d.Live {
		if k == kind {
			n++
		}
	}
	return n
}

// SetViewport sets the value returned for the viewport query.
func (d *Device) SetViewport(x, y, w, h int32) { d.Ints[gfx.Viewport] = []int32{x, y, w, h} }

// Program returns the currently bound program.
func (d *Device) Program() uint32 { return uint32(d.Ints[gfx.CurrentProgram][0]) }

// BoundTexture returns the 2D texture bound to the active unit.
func (d *Device) BoundTexture() uint32 { return d.units[d.activeUnit()] }

func (d *Device) activeUnit() gfx.Enum { return gfx.Enum(d.Ints[gfx.ActiveTextureUnit][0]) }

func (d *Device) Profile() gfx.Profile          { return d.Prof }
func (d *Device) GetString(name gfx.Enum) string { return d.Strings[name] }

func (d *Device) GetIntegerv(pname gfx.Enum, data []int32) {
	if pname == gfx.TextureBinding2D {
		data[0] = int32(d.BoundTexture())
		return
	}
	copy(data, d.Ints[pname])
}

func (d *Device) IsEnabled(c gfx.Enum) bool { return d.Enabled[c] }

func (d *Device) Enable(c gfx.Enum) {
	d.record("Enable(%#x)", c)
	d.Enabled[c] = true
}

func (d *Device) Disable(c gfx.Enum) {
	d.record("Disable(%#x)", c)
	d.Enabled[c] = false
}

func (d *Device) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha gfx.Enum) {
	d.record("BlendFuncSeparate(%#x, %#x, %#x, %#x)", srcRGB, dstRGB, srcAlpha, dstAlpha)
	d.Ints[gfx.BlendSrcRGB] = []int32{int32(srcRGB)}
	d.Ints[gfx.BlendDstRGB] = []int32{int32(dstRGB)}
	d.Ints[gfx.BlendSrcAlpha] = []int32{int32(srcAlpha)}
	d.Ints[gfx.BlendDstAlpha] = []int32{int32(dstAlpha)}
}

func (d *Device) Scissor(x, y, width, height int32) {
	d.record("Scissor(%d, %d, %d, %d)", x, y, width, height)
	d.Ints[gfx.ScissorBox] = []int32{x, y, width, height}
}

func (d *Device) CreateProgram(vertexSrc, fragmentSrc string) (gfx.Program, error) {
	if d.CompileError != nil {
		return gfx.Program{}, d.CompileError
	}
	d.record("CreateProgram")
	return gfx.Program{ID: d.gen("program"), Vertex: d.gen("shader"), Fragment: d.gen("shader")}, nil
}

func (d *Device) DeleteProgram(p uint32) { d.record("DeleteProgram(%d)", p); delete(d.Live, p) }
func (d *Device) DeleteShader(s uint32)  { d.record("DeleteShader(%d)", s); delete(d.Live, s) }

func (d *Device) UseProgram(p uint32) {
	d.record("UseProgram(%d)", p)
	d.Ints[gfx.CurrentProgram] = []int32{int32(p)}
}

var locations = map[string]int32{"u_screen_size": 0, "u_sampler": 1, "a_pos": 0, "a_tc": 1, "a_srgba": 2}

func (d *Device) GetUniformLocation(p uint32, name string) int32 {
	if l, ok := locations[name]; ok {
		return l
	}
	return -1
}

func (d *Device) GetAttribLocation(p uint32, name string) int32 { return d.GetUniformLocation(p, name) }

func (d *Device) Uniform1i(loc int32, v int32) { d.record("Uniform1i(%d, %d)", loc, v) }
func (d *Device) Uniform2f(loc int32, x, y float32) {
	d.record("Uniform2f(%d, %g, %g)", loc, x, y)
}

func (d *Device) GenVertexArray() uint32 { return d.gen("vertexarray") }
func (d *Device) DeleteVertexArray(v uint32) {
	d.record("DeleteVertexArray(%d)", v)
	delete(d.Live, v)
}

func (d *Device) BindVertexArray(v uint32) {
	d.record("BindVertexArray(%d)", v)
	d.Ints[gfx.VertexArrayBind] = []int32{int32(v)}
}

func (d *Device) GenBuffer() uint32       { return d.gen("buffer") }
func (d *Device) DeleteBuffer(b uint32) { d.record("DeleteBuffer(%d)", b); delete(d.Live, b) }

func (d *Device) BindBuffer(target gfx.Enum, b uint32) {
	d.buffers[target] = b
	if target == gfx.ArrayBuffer {
		d.Ints[gfx.ArrayBufferBind] = []int32{int32(b)}
	}
}

func (d *Device) BufferData(target gfx.Enum, data []byte, usage gfx.Enum) {
	d.data[d.buffers[target]] = append([]byte(nil), data...)
}

func (d *Device) VertexAttribPointer(index uint32, size int32, xtype gfx.Enum, normalized bool, stride int32, offset int) {
}

func (d *Device) EnableVertexAttribArray(index uint32) {}

func (d *Device) DrawElements(mode gfx.Enum, count int32, xtype gfx.Enum, offset int) {
	d.record("DrawElements(%d)", count)
	box := d.Ints[gfx.ScissorBox]
	d.Draws = append(d.Draws, Draw{
		Program: d.Program(),
		Texture: d.BoundTexture(),
		Scissor: [4]int32{box[0], box[1], box[2], box[3]},
		Count:   count,
		Indices: d.data[d.buffers[gfx.ElementArrayBuffer]],
		Verts:   d.data[d.buffers[gfx.ArrayBuffer]],
	})
}

func (d *Device) GenTexture() uint32 { return d.gen("texture") }

func (d *Device) DeleteTexture(t uint32) {
	d.record("DeleteTexture(%d)", t)
	delete(d.Live, t)
	for u, b := range d.units {
		if b == t {
			d.units[u] = 0
		}
	}
}

func (d *Device) ActiveTexture(unit gfx.Enum) {
	d.Ints[gfx.ActiveTextureUnit] = []int32{int32(unit)}
}

func (d *Device) BindTexture(target gfx.Enum, t uint32) { d.units[d.activeUnit()] = t }

func (d *Device) TexParameteri(target, pname gfx.Enum, param int32) {
	d.record("TexParameteri(%#x, %#x)", pname, param)
}

func (d *Device) TexImage2D(target gfx.Enum, level int32, internalFormat gfx.Enum, width, height int32, format, xtype gfx.Enum, pixels []byte) {
	d.Uploads = append(d.Uploads, Upload{
		Texture:        d.BoundTexture(),
		InternalFormat: internalFormat,
		Width:          width,
		Height:         height,
		Pixels:         append([]byte(nil), pixels...),
	})
}
