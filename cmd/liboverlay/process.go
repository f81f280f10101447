package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"unsafe"

	"github.com/hubastard/grove-overlay/engine/config"
	"github.com/hubastard/grove-overlay/engine/ffi"
	"github.com/hubastard/grove-overlay/engine/gfx"
	glbackend "github.com/hubastard/grove-overlay/engine/gfx/gl"
	glesbackend "github.com/hubastard/grove-overlay/engine/gfx/gles"
	"github.com/hubastard/grove-overlay/engine/hud"
	"github.com/hubastard/grove-overlay/engine/interpose"
	"github.com/hubastard/grove-overlay/engine/logging"
	"github.com/hubastard/grove-overlay/engine/overlay"
	"github.com/hubastard/grove-overlay/engine/platform"
	"github.com/hubastard/grove-overlay/engine/profiler"
)

// process is everything the hooks share. It is built on the first hooked
// call, never from dlsym alone.
type process struct {
	host *overlay.Host

	glx      *platform.GLX
	egl      *platform.EGL
	glxFrame *overlay.Trampoline
	eglFrame *overlay.Trampoline
}

var proc = sync.OnceValue(func() *process {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "grove-overlay: %v; using defaults\n", err)
		cfg = config.Default()
	}
	if _, err := logging.Configure(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "grove-overlay: %v\n", err)
	}
	if cfg.Profile.Path != "" {
		profiler.Init(1 << 16)
	}

	host := overlay.NewHost(func(dev gfx.Device) (overlay.UI, error) {
		h, err := hud.New(cfg.HUD, dev)
		if err != nil {
			return nil, err
		}
		return h, nil
	})
	if cfg.Profile.Path != "" {
		host.AfterFrame = overlay.DumpProfileAfter(cfg.Profile.AfterFrames, cfg.Profile.Path)
	}

	p := &process{
		host: host,
		glx:  platform.NewGLX(),
		egl:  platform.NewEGL(),
	}
	p.glxFrame = overlay.NewTrampoline(host, p.glx, loadGL)
	p.eglFrame = overlay.NewTrampoline(host, p.egl, loadGLES)
	logging.Logger().Info("overlay loaded", "hud", cfg.HUD.Enabled, "profile", cfg.Profile.Path)
	return p
})

// hooks holds our entry point addresses. It needs nothing else, so dlsym
// can use it before the process state exists.
var hooks = sync.OnceValue(func() *interpose.Table {
	return interpose.NewTable(map[string]uintptr{
		interpose.GLXSwapBuffers:       uintptr(hookAddress(hookGLXSwapBuffers)),
		interpose.GLXGetProcAddress:    uintptr(hookAddress(hookGLXGetProcAddress)),
		interpose.GLXGetProcAddressARB: uintptr(hookAddress(hookGLXGetProcAddressARB)),
		interpose.EGLSwapBuffers:       uintptr(hookAddress(hookEGLSwapBuffers)),
	})
})

// glxSwapHook is handed out by the GLX get-proc-address hooks in place of
// the real swap.
func glxSwapHook() unsafe.Pointer {
	addr, _ := hooks().Hook(interpose.GLXSwapBuffers)
	return ffi.Pointer(addr)
}

func fatal(err error) {
	proc().host.Fatal(err)
}

func loadGL(b overlay.Binding) (gfx.Device, error) {
	dev, err := glbackend.Load(b.GetProcAddress)
	if err != nil {
		return nil, fmt.Errorf("load gl through %s: %w", b.Name(), err)
	}
	return dev, nil
}

// loadGLES loads the ES function table. EGL can also front a desktop GL
// context, which is detected from the version string.
func loadGLES(b overlay.Binding) (gfx.Device, error) {
	dev, err := glesbackend.Load(b.GetProcAddress)
	if err != nil {
		return nil, fmt.Errorf("load gles through %s: %w", b.Name(), err)
	}
	if strings.HasPrefix(dev.GetString(gfx.Version), "OpenGL ES") {
		return dev, nil
	}
	return loadGL(b)
}
