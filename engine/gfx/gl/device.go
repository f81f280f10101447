// Package glbackend implements gfx.Device on desktop GL through go-gl.
package glbackend

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/grove-overlay/engine/gfx"
)

// Device forwards to the go-gl function table. The table is process-wide, so
// there is at most one useful Device per process.
type Device struct{}

var _ gfx.Device = (*Device)(nil)

// Load resolves every GL entry point through getProcAddr. A missing function
// is reported by name.
func Load(getProcAddr func(name string) unsafe.Pointer) (*Device, error) {
	if err := gl.InitWithProcAddrFunc(getProcAddr); err != nil {
		return nil, fmt.Errorf("load gl functions: %w", err)
	}
	return &Device{}, nil
}

func (*Device) Profile() gfx.Profile { return gfx.ProfileCore }

func (*Device) GetString(name gfx.Enum) string {
	p := gl.GetString(name)
	if p == nil {
		return ""
	}
	return gl.GoStr(p)
}

func (*Device) GetIntegerv(pname gfx.Enum, data []int32) {
	if len(data) == 0 {
		return
	}
	gl.GetIntegerv(pname, &data[0])
}

func (*Device) IsEnabled(c gfx.Enum) bool { return gl.IsEnabled(c) }
func (*Device) Enable(c gfx.Enum)         { gl.Enable(c) }
func (*Device) Disable(c gfx.Enum)        { gl.Disable(c) }

func (*Device) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha gfx.Enum) {
	gl.BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (*Device) Scissor(x, y, width, height int32) { gl.Scissor(x, y, width, height) }

func (*Device) CreateProgram(vertexSrc, fragmentSrc string) (gfx.Program, error) {
	return makeProgram(vertexSrc, fragmentSrc)
}

func (*Device) DeleteProgram(p uint32) { gl.DeleteProgram(p) }
func (*Device) DeleteShader(s uint32)  { gl.DeleteShader(s) }
func (*Device) UseProgram(p uint32)    { gl.UseProgram(p) }

func (*Device) GetUniformLocation(p uint32, name string) int32 {
	return gl.GetUniformLocation(p, gl.Str(name+"\x00"))
}

func (*Device) GetAttribLocation(p uint32, name string) int32 {
	return gl.GetAttribLocation(p, gl.Str(name+"\x00"))
}

func (*Device) Uniform1i(loc int32, v int32)      { gl.Uniform1i(loc, v) }
func (*Device) Uniform2f(loc int32, x, y float32) { gl.Uniform2f(loc, x, y) }

func (*Device) GenVertexArray() uint32 {
	var v uint32
	gl.GenVertexArrays(1, &v)
	return v
}

func (*Device) DeleteVertexArray(v uint32) { gl.DeleteVertexArrays(1, &v) }
func (*Device) BindVertexArray(v uint32)   { gl.BindVertexArray(v) }

func (*Device) GenBuffer() uint32 {
	var b uint32
	gl.GenBuffers(1, &b)
	return b
}

func (*Device) DeleteBuffer(b uint32)                { gl.DeleteBuffers(1, &b) }
func (*Device) BindBuffer(target gfx.Enum, b uint32) { gl.BindBuffer(target, b) }

func (*Device) BufferData(target gfx.Enum, data []byte, usage gfx.Enum) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(target, len(data), ptr, usage)
}

func (*Device) VertexAttribPointer(index uint32, size int32, xtype gfx.Enum, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, uintptr(offset))
}

func (*Device) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (*Device) DrawElements(mode gfx.Enum, count int32, xtype gfx.Enum, offset int) {
	gl.DrawElementsWithOffset(mode, count, xtype, uintptr(offset))
}

func (*Device) GenTexture() uint32 {
	var t uint32
	gl.GenTextures(1, &t)
	return t
}

func (*Device) DeleteTexture(t uint32)                { gl.DeleteTextures(1, &t) }
func (*Device) ActiveTexture(unit gfx.Enum)           { gl.ActiveTexture(unit) }
func (*Device) BindTexture(target gfx.Enum, t uint32) { gl.BindTexture(target, t) }

func (*Device) TexParameteri(target, pname gfx.Enum, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (*Device) TexImage2D(target gfx.Enum, level int32, internalFormat gfx.Enum, width, height int32, format, xtype gfx.Enum, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(target, level, int32(internalFormat), width, height, 0, format, xtype, ptr)
}

// --- Shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen)+1)
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader compile error: %s", strings.TrimRight(log, "\x00"))
	}
	return sh, nil
}

// makeProgram keeps the shaders alive so the painter can delete them on release.
func makeProgram(vsSrc, fsSrc string) (gfx.Program, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return gfx.Program{}, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return gfx.Program{}, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen)+1)
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		gl.DeleteShader(vs)
		gl.DeleteShader(fs)
		return gfx.Program{}, fmt.Errorf("program link error: %s", strings.TrimRight(log, "\x00"))
	}
	return gfx.Program{ID: prog, Vertex: vs, Fragment: fs}, nil
}
