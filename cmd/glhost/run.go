package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/grove-overlay/engine/colors"
	"github.com/hubastard/grove-overlay/engine/config"
	"github.com/hubastard/grove-overlay/engine/gfx"
	glbackend "github.com/hubastard/grove-overlay/engine/gfx/gl"
	"github.com/hubastard/grove-overlay/engine/gfx/glstate"
	"github.com/hubastard/grove-overlay/engine/hud"
	"github.com/hubastard/grove-overlay/engine/logging"
	"github.com/hubastard/grove-overlay/engine/overlay"
)

var errStateChanged = errors.New("host GL state changed across the overlay frame")

func run(opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	closeLog, err := logging.Configure(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	log := logging.Logger()

	win, err := newWindow("grove overlay host", opts.Width, opts.Height, opts.VSync)
	if err != nil {
		return err
	}
	defer win.Destroy()

	dev, err := glbackend.Load(binding{}.GetProcAddress)
	if err != nil {
		return err
	}
	log.Info("gl context", "version", dev.GetString(gfx.Version), "renderer", dev.GetString(gfx.Renderer))

	sc, err := newScene(dev)
	if err != nil {
		return err
	}
	defer sc.release()

	var frameErr error
	host := overlay.NewHost(func(d gfx.Device) (overlay.UI, error) {
		h, err := hud.New(cfg.HUD, d)
		if err != nil {
			return nil, err
		}
		return h, nil
	})
	host.Fatal = func(err error) { frameErr = err }
	tramp := overlay.NewTrampoline(host, binding{}, func(overlay.Binding) (gfx.Device, error) { return dev, nil })
	defer tramp.Close()

	start := time.Now()
	for frame := 1; !win.ShouldClose(); frame++ {
		win.PollEvents()
		w, h := win.FramebufferSize()
		gl.Viewport(0, 0, int32(w), int32(h))

		sc.draw(time.Since(start))
		before := glstate.Capture(dev)
		if opts.Overlay {
			overlay.Swap(tramp, func() struct{} { win.SwapBuffers(); return struct{}{} })
		} else {
			win.SwapBuffers()
		}
		if frameErr != nil {
			return frameErr
		}
		if after := glstate.Capture(dev); !glstate.Equal(before, after) {
			return fmt.Errorf("frame %d: %w: before %+v, after %+v", frame, errStateChanged, before, after)
		}

		if opts.Frames > 0 && frame >= opts.Frames {
			break
		}
	}

	s := tramp.Stats()
	log.Info("done", "frames", s.Frames, "skipped", s.Skipped, "uploads", s.Uploads, "draws", s.Draws)
	if s.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "glhost: %d overlay frames skipped\n", s.Skipped)
	}
	return nil
}

// scene is the host's own drawing: one rotating triangle.
type scene struct {
	dev     gfx.Device
	program gfx.Program
	vao     uint32
	vbo     uint32
	uAngle  int32
	clear   colors.Color
}

const sceneVert = `#version 330 core
layout(location = 0) in vec2 a_pos;
layout(location = 1) in vec3 a_color;
uniform float u_angle;
out vec3 v_color;
void main() {
	float c = cos(u_angle), s = sin(u_angle);
	gl_Position = vec4(c * a_pos.x - s * a_pos.y, s * a_pos.x + c * a_pos.y, 0.0, 1.0);
	v_color = a_color;
}
`

const sceneFrag = `#version 330 core
in vec3 v_color;
out vec4 f_color;
void main() { f_color = vec4(v_color, 1.0); }
`

func newScene(dev gfx.Device) (*scene, error) {
	prog, err := dev.CreateProgram(sceneVert, sceneFrag)
	if err != nil {
		return nil, fmt.Errorf("scene program: %w", err)
	}
	verts := []float32{
		-0.6, -0.5, 1, 0.3, 0.2,
		0.6, -0.5, 0.2, 1, 0.3,
		0.0, 0.6, 0.2, 0.3, 1,
	}
	sc := &scene{dev: dev, program: prog, clear: colors.DarkGray}
	sc.uAngle = dev.GetUniformLocation(prog.ID, "u_angle")
	sc.vao = dev.GenVertexArray()
	sc.vbo = dev.GenBuffer()
	dev.BindVertexArray(sc.vao)
	dev.BindBuffer(gfx.ArrayBuffer, sc.vbo)
	dev.BufferData(gfx.ArrayBuffer, gfx.Bytes(verts), gfx.StaticDraw)
	dev.VertexAttribPointer(0, 2, gfx.Float, false, 5*4, 0)
	dev.EnableVertexAttribArray(0)
	dev.VertexAttribPointer(1, 3, gfx.Float, false, 5*4, 2*4)
	dev.EnableVertexAttribArray(1)

	// State the overlay must not disturb.
	dev.Enable(gfx.DepthTest)
	dev.Enable(gfx.CullFace)
	dev.Disable(gfx.Blend)
	return sc, nil
}

func (sc *scene) draw(t time.Duration) {
	gl.ClearColor(sc.clear[0], sc.clear[1], sc.clear[2], sc.clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	sc.dev.UseProgram(sc.program.ID)
	gl.Uniform1f(sc.uAngle, float32(t.Seconds()))
	sc.dev.BindVertexArray(sc.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
}

func (sc *scene) release() {
	sc.dev.DeleteBuffer(sc.vbo)
	sc.dev.DeleteVertexArray(sc.vao)
	sc.dev.DeleteProgram(sc.program.ID)
	sc.dev.DeleteShader(sc.program.Vertex)
	sc.dev.DeleteShader(sc.program.Fragment)
}
