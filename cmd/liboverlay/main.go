// Command liboverlay is built with -buildmode=c-shared and preloaded into a
// GL application. It replaces dlsym and the GLX/EGL swap and
// get-proc-address entry points, draws the HUD, then calls the real ones.
package main

/*
// dlfcn.h is left out: its dlsym prototype conflicts with the exported one.
enum {
	GROVE_HOOK_GLX_SWAP_BUFFERS = 1,
	GROVE_HOOK_GLX_GET_PROC_ADDRESS,
	GROVE_HOOK_GLX_GET_PROC_ADDRESS_ARB,
	GROVE_HOOK_EGL_SWAP_BUFFERS,
};

void *grove_hook_address(int which);
*/
import "C"

import (
	"unsafe"

	"github.com/hubastard/grove-overlay/engine/ffi"
	"github.com/hubastard/grove-overlay/engine/overlay"
)

//export dlsym
func dlsym(handle, name unsafe.Pointer) unsafe.Pointer {
	genuine, err := ffi.RealDlsymC(uintptr(handle), name)
	if err != nil {
		fatal(err)
		return nil
	}
	if name == nil {
		return ffi.Pointer(genuine)
	}
	s, err := ffi.GoName(name)
	if err != nil {
		fatal(err)
		return nil
	}
	return ffi.Pointer(hooks().Resolve(s, genuine))
}

//export glXSwapBuffers
func glXSwapBuffers(dpy, drawable uintptr) {
	p := proc()
	overlay.Swap(p.glxFrame, func() struct{} {
		if err := p.glx.Open(); err != nil {
			p.host.Fatal(err)
			return struct{}{}
		}
		p.glx.Swap(dpy, drawable)
		return struct{}{}
	})
}

//export glXGetProcAddress
func glXGetProcAddress(name unsafe.Pointer) unsafe.Pointer {
	p := proc()
	s, err := ffi.GoName(name)
	if err != nil {
		p.host.Fatal(err)
		return nil
	}
	return p.glxFrame.GetProcAddress(s, glxSwapHook(), p.glx.GetProcAddress)
}

//export glXGetProcAddressARB
func glXGetProcAddressARB(name unsafe.Pointer) unsafe.Pointer {
	p := proc()
	s, err := ffi.GoName(name)
	if err != nil {
		p.host.Fatal(err)
		return nil
	}
	return p.glxFrame.GetProcAddress(s, glxSwapHook(), p.glx.GetProcAddressARB)
}

//export eglSwapBuffers
func eglSwapBuffers(dpy, surface uintptr) uint32 {
	p := proc()
	return overlay.Swap(p.eglFrame, func() uint32 {
		if err := p.egl.Open(); err != nil {
			p.host.Fatal(err)
			return 0
		}
		return p.egl.Swap(dpy, surface)
	})
}

const (
	hookGLXSwapBuffers       = int(C.GROVE_HOOK_GLX_SWAP_BUFFERS)
	hookGLXGetProcAddress    = int(C.GROVE_HOOK_GLX_GET_PROC_ADDRESS)
	hookGLXGetProcAddressARB = int(C.GROVE_HOOK_GLX_GET_PROC_ADDRESS_ARB)
	hookEGLSwapBuffers       = int(C.GROVE_HOOK_EGL_SWAP_BUFFERS)
)

func hookAddress(which int) unsafe.Pointer {
	return C.grove_hook_address(C.int(which))
}

func main() {}
