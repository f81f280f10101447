//go:build linux

package platform

import (
	"unsafe"

	"github.com/hubastard/grove-overlay/engine/ffi"
	"github.com/hubastard/grove-overlay/engine/interpose"
)

// GLXLibraries are tried in order.
var GLXLibraries = []string{"libGL.so.1", "libGL.so"}

// GLX is the real desktop GL windowing library.
type GLX struct {
	realLibrary

	swap              func(dpy, drawable uintptr)
	getProcAddress    func(name string) unsafe.Pointer
	getProcAddressARB func(name string) unsafe.Pointer
}

func NewGLX(sonames ...string) *GLX {
	if len(sonames) == 0 {
		sonames = GLXLibraries
	}
	return &GLX{realLibrary: realLibrary{sonames: sonames}}
}

func (*GLX) Name() string { return "glx" }

// SwapFunction is the entry point the overlay hooks for this binding.
func (*GLX) SwapFunction() string { return interpose.GLXSwapBuffers }

// Open loads the library and binds the swap and get-proc-address entry
// points. Only the first call does any work.
func (g *GLX) Open() error {
	return g.open(func(*ffi.Library) []binding {
		return []binding{
			{interpose.GLXSwapBuffers, &g.swap},
			{interpose.GLXGetProcAddress, &g.getProcAddress},
			{interpose.GLXGetProcAddressARB, &g.getProcAddressARB},
		}
	})
}

func (g *GLX) Swap(dpy, drawable uintptr) { g.swap(dpy, drawable) }

func (g *GLX) GetProcAddress(name string) unsafe.Pointer { return g.getProcAddress(name) }

func (g *GLX) GetProcAddressARB(name string) unsafe.Pointer { return g.getProcAddressARB(name) }
