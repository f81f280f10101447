//go:build linux

package platform

import (
	"unsafe"

	"github.com/hubastard/grove-overlay/engine/ffi"
	"github.com/hubastard/grove-overlay/engine/interpose"
)

// EGLLibraries are tried in order.
var EGLLibraries = []string{"libEGL.so.1", "libEGL.so"}

// EGL is the real embedded GL windowing library.
type EGL struct {
	realLibrary

	swap           func(dpy, surface uintptr) uint32
	getProcAddress func(name string) unsafe.Pointer
}

func NewEGL(sonames ...string) *EGL {
	if len(sonames) == 0 {
		sonames = EGLLibraries
	}
	return &EGL{realLibrary: realLibrary{sonames: sonames}}
}

func (*EGL) Name() string { return "egl" }

func (*EGL) SwapFunction() string { return interpose.EGLSwapBuffers }

func (e *EGL) Open() error {
	return e.open(func(*ffi.Library) []binding {
		return []binding{
			{interpose.EGLSwapBuffers, &e.swap},
			{"eglGetProcAddress", &e.getProcAddress},
		}
	})
}

// Swap returns the EGLBoolean result unchanged.
func (e *EGL) Swap(dpy, surface uintptr) uint32 { return e.swap(dpy, surface) }

func (e *EGL) GetProcAddress(name string) unsafe.Pointer { return e.getProcAddress(name) }
