package painter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hubastard/grove-overlay/engine/assets"
	"github.com/hubastard/grove-overlay/engine/gfx"
)

// ShaderVersion is the GLSL dialect the overlay shaders are compiled as.
type ShaderVersion uint8

const (
	GLSL120 ShaderVersion = iota
	GLSL140
	ES100
	ES300
)

func (v ShaderVersion) String() string {
	switch v {
	case GLSL120:
		return "glsl120"
	case GLSL140:
		return "glsl140"
	case ES100:
		return "es100"
	case ES300:
		return "es300"
	}
	return fmt.Sprintf("ShaderVersion(%d)", uint8(v))
}

// Prefix is prepended to both shader files.
func (v ShaderVersion) Prefix() string {
	switch v {
	case GLSL140:
		return "#version 140\n#define NEW_SHADER_INTERFACE 1\n"
	case ES100:
		return "#version 100\n"
	case ES300:
		return "#version 300 es\n#define NEW_SHADER_INTERFACE 1\n"
	default:
		return "#version 120\n"
	}
}

// InternalFormat is the texture format matching what the fragment shader
// expects to sample. ES 1.00 has no sRGB textures and decodes by hand.
func (v ShaderVersion) InternalFormat() gfx.Enum {
	if v == ES100 {
		return gfx.RGBA
	}
	return gfx.SRGB8Alpha8
}

var versionRe = regexp.MustCompile(`(\d+)\.(\d+)`)

// DetectShaderVersion reads GL_SHADING_LANGUAGE_VERSION. Strings it cannot
// parse fall back to the oldest dialect of the device's profile.
func DetectShaderVersion(dev gfx.Device) ShaderVersion {
	return ParseShaderVersion(dev.Profile(), dev.GetString(gfx.ShadingLanguageVersion))
}

func ParseShaderVersion(profile gfx.Profile, s string) ShaderVersion {
	es := profile == gfx.ProfileES || strings.Contains(s, "OpenGL ES")
	n := 0
	if m := versionRe.FindStringSubmatch(s); m != nil {
		major, _ := strconv.Atoi(m[1])
		minor, _ := strconv.Atoi(m[2])
		// "1.4" and "1.40" mean the same thing
		if minor < 10 {
			minor *= 10
		}
		n = major*100 + minor
	}
	switch {
	case es && n >= 300:
		return ES300
	case es:
		return ES100
	case n >= 140:
		return GLSL140
	default:
		return GLSL120
	}
}

// ShaderSources returns the vertex and fragment sources for v.
func ShaderSources(v ShaderVersion) (vs, fs string, err error) {
	vert, err := assets.LoadShader("overlay.vert")
	if err != nil {
		return "", "", err
	}
	frag, err := assets.LoadShader("overlay.frag")
	if err != nil {
		return "", "", err
	}
	return v.Prefix() + vert, v.Prefix() + frag, nil
}
