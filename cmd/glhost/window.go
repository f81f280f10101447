package main

import (
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/hubastard/grove-overlay/engine/interpose"
)

// window is a GLFW window with a current GL 3.3 core context.
type window struct {
	w *glfw.Window
}

// Must be called on the main thread before any GL calls.
func newWindow(title string, width, height int, vsync bool) (*window, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)

	w, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	w.MakeContextCurrent()
	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	w.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})
	return &window{w: w}, nil
}

func (w *window) PollEvents()                 { glfw.PollEvents() }
func (w *window) SwapBuffers()                { w.w.SwapBuffers() }
func (w *window) ShouldClose() bool           { return w.w.ShouldClose() }
func (w *window) FramebufferSize() (int, int) { return w.w.GetFramebufferSize() }

func (w *window) Destroy() {
	w.w.Destroy()
	glfw.Terminate()
}

// binding presents the window to the overlay as a windowing library whose
// swap is GLFW's.
type binding struct{}

func (binding) Name() string                              { return "glfw" }
func (binding) SwapFunction() string                      { return interpose.GLXSwapBuffers }
func (binding) Open() error                               { return nil }
func (binding) GetProcAddress(name string) unsafe.Pointer { return glfw.GetProcAddress(name) }
