// Package gfx defines the subset of the GL API the overlay renderer needs.
// Desktop GL and GL ES implementations live in gfx/gl and gfx/gles; both are
// loaded from the host's own driver through a get-proc-address function.
package gfx

import "unsafe"

type Enum = uint32

// Values shared by desktop GL and GL ES.
const (
	DepthTest         Enum = 0x0B71
	CullFace          Enum = 0x0B44
	Blend             Enum = 0x0BE2
	ScissorTest       Enum = 0x0C11
	FramebufferSRGB   Enum = 0x8DB9
	Viewport          Enum = 0x0BA2
	ScissorBox        Enum = 0x0C10
	MaxTextureSize    Enum = 0x0D33
	CurrentProgram    Enum = 0x8B8D
	ActiveTextureUnit Enum = 0x84E0
	TextureBinding2D  Enum = 0x8069
	VertexArrayBind   Enum = 0x85B5
	ArrayBufferBind   Enum = 0x8894
	BlendSrcRGB       Enum = 0x80C9
	BlendDstRGB       Enum = 0x80C8
	BlendSrcAlpha     Enum = 0x80CB
	BlendDstAlpha     Enum = 0x80CA

	One              Enum = 1
	OneMinusSrcAlpha Enum = 0x0303

	Texture0         Enum = 0x84C0
	Texture2D        Enum = 0x0DE1
	TextureMinFilter Enum = 0x2801
	TextureMagFilter Enum = 0x2800
	TextureWrapS     Enum = 0x2802
	TextureWrapT     Enum = 0x2803
	ClampToEdge      Enum = 0x812F
	Linear           Enum = 0x2601
	Nearest          Enum = 0x2600
	RGBA             Enum = 0x1908
	SRGB8Alpha8      Enum = 0x8C43
	UnsignedByte     Enum = 0x1401
	UnsignedInt      Enum = 0x1405
	Float            Enum = 0x1406
	Triangles        Enum = 0x0004

	ArrayBuffer        Enum = 0x8892
	ElementArrayBuffer Enum = 0x8893
	StreamDraw         Enum = 0x88E0
	StaticDraw         Enum = 0x88E4

	VertexShader   Enum = 0x8B31
	FragmentShader Enum = 0x8B30

	Vendor                 Enum = 0x1F00
	Renderer               Enum = 0x1F01
	Version                Enum = 0x1F02
	ShadingLanguageVersion Enum = 0x8B8C
)

// Profile tells desktop GL from GL ES contexts.
type Profile uint8

const (
	ProfileCore Profile = iota
	ProfileES
)

func (p Profile) String() string {
	if p == ProfileES {
		return "es"
	}
	return "core"
}

// Program is a linked program together with the shaders it was built from.
type Program struct {
	ID       uint32
	Vertex   uint32
	Fragment uint32
}

// Device is a loaded GL function table bound to whatever context is current
// on the calling thread.
type Device interface {
	Profile() Profile
	GetString(name Enum) string
	GetIntegerv(pname Enum, data []int32)

	IsEnabled(cap Enum) bool
	Enable(cap Enum)
	Disable(cap Enum)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum)
	Scissor(x, y, width, height int32)

	CreateProgram(vertexSrc, fragmentSrc string) (Program, error)
	DeleteProgram(p uint32)
	DeleteShader(s uint32)
	UseProgram(p uint32)
	GetUniformLocation(p uint32, name string) int32
	GetAttribLocation(p uint32, name string) int32
	Uniform1i(loc int32, v int32)
	Uniform2f(loc int32, x, y float32)

	GenVertexArray() uint32
	DeleteVertexArray(v uint32)
	BindVertexArray(v uint32)
	GenBuffer() uint32
	DeleteBuffer(b uint32)
	BindBuffer(target Enum, b uint32)
	BufferData(target Enum, data []byte, usage Enum)
	VertexAttribPointer(index uint32, size int32, xtype Enum, normalized bool, stride int32, offset int)
	EnableVertexAttribArray(index uint32)
	DrawElements(mode Enum, count int32, xtype Enum, offset int)

	GenTexture() uint32
	DeleteTexture(t uint32)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, t uint32)
	TexParameteri(target, pname Enum, param int32)
	TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, xtype Enum, pixels []byte)
}

// GetInteger reads a single integer state value.
func GetInteger(d Device, pname Enum) int32 {
	var v [1]int32
	d.GetIntegerv(pname, v[:])
	return v[0]
}

// GetInteger4 reads a four component integer state value such as the viewport.
func GetInteger4(d Device, pname Enum) [4]int32 {
	var v [4]int32
	d.GetIntegerv(pname, v[:])
	return v
}

// SupportsCapability reports whether cap may be queried and toggled on d.
// sRGB framebuffer control is a desktop GL feature.
func SupportsCapability(d Device, cap Enum) bool {
	if cap == FramebufferSRGB {
		return d.Profile() == ProfileCore
	}
	return true
}

// Bytes reinterprets a slice of plain values as bytes without copying.
func Bytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}
